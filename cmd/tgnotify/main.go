package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"tgnotify/internal/cli"
	"tgnotify/internal/watch"
	"tgnotify/pkg/fanout"
	"tgnotify/pkg/tgnotify"
)

func main() {
	var (
		cfgPath   string
		token     string
		chatList  string
		parseMode string
		silent    bool

		message  string
		photo    string
		document string
		caption  string

		watchPath string
		ratePer   int
		logLevel  string
	)
	flag.StringVar(&cfgPath, "config", "", "path to config yaml/json (optional)")
	flag.StringVar(&token, "token", "", "bot token (overrides config/env)")
	flag.StringVar(&chatList, "chat", "", "chat id(s), comma separated (overrides config/env)")
	flag.StringVar(&parseMode, "parse-mode", "", "plain, html, markdown or markdownv2")
	flag.BoolVar(&silent, "silent", false, "deliver without notification sound")
	flag.StringVar(&message, "message", "", "text to send; '-' reads stdin")
	flag.StringVar(&photo, "photo", "", "photo to send (path or http(s) url)")
	flag.StringVar(&document, "document", "", "document to send (path or http(s) url)")
	flag.StringVar(&caption, "caption", "", "caption for -photo/-document")
	flag.StringVar(&watchPath, "watch", "", "watch a file/dir and notify on change")
	flag.IntVar(&ratePer, "rate", 0, "messages per second when fanning out to many chats (0 = unpaced)")
	flag.StringVar(&logLevel, "log-level", "info", "log level for watch mode")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, runOptions{
		cfgPath: cfgPath, token: token, chatList: chatList, parseMode: parseMode,
		silent: silent, message: message, photo: photo, document: document,
		caption: caption, watchPath: watchPath, ratePer: ratePer, logLevel: logLevel,
	}); err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		var rl *tgnotify.RateLimitError
		if errors.As(err, &rl) {
			fmt.Fprintf(os.Stderr, "hint: telegram asks to retry after %s\n", rl.RetryAfter)
		}
		os.Exit(1)
	}
}

type runOptions struct {
	cfgPath   string
	token     string
	chatList  string
	parseMode string
	silent    bool
	message   string
	photo     string
	document  string
	caption   string
	watchPath string
	ratePer   int
	logLevel  string
}

func run(ctx context.Context, opt runOptions) error {
	cfg, err := cli.Load(opt.cfgPath)
	if err != nil {
		return err
	}
	if opt.token != "" {
		cfg.Token = opt.token
	}
	if opt.parseMode != "" {
		mode, err := cli.ParseMode(opt.parseMode)
		if err != nil {
			return err
		}
		cfg.ParseMode = mode
	}
	if opt.silent {
		cfg.Silent = true
	}

	chats := splitChats(opt.chatList)
	if len(chats) > 0 {
		cfg.ChatID = chats[0]
	}

	client, err := tgnotify.New(cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	if opt.watchPath != "" {
		return runWatch(ctx, client, opt)
	}
	return runSend(ctx, client, chats, opt)
}

func runSend(ctx context.Context, client *tgnotify.Client, chats []tgnotify.ChatID, opt runOptions) error {
	switch {
	case opt.photo != "":
		return sendToAll(ctx, chats, func(to ...tgnotify.ChatID) error {
			return client.SendPhoto(ctx, sourceFromArg(opt.photo), opt.caption, to...)
		})
	case opt.document != "":
		return sendToAll(ctx, chats, func(to ...tgnotify.ChatID) error {
			return client.SendDocument(ctx, sourceFromArg(opt.document), opt.caption, to...)
		})
	}

	text := opt.message
	if text == "-" || text == "" {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		text = strings.TrimRight(string(b), "\n")
	}
	if text == "" {
		return errors.New("nothing to send: pass -message, -photo or -document")
	}

	if len(chats) > 1 {
		failures := fanout.Send(ctx, client, fanout.Config{RatePerSec: opt.ratePer}, nil, text, chats)
		for _, f := range failures {
			fmt.Fprintf(os.Stderr, "chat %s: %v\n", f.ChatID, f.Err)
		}
		if len(failures) > 0 {
			return fmt.Errorf("%d of %d chats failed", len(failures), len(chats))
		}
		return nil
	}
	return client.SendText(ctx, text)
}

func runWatch(ctx context.Context, client *tgnotify.Client, opt runOptions) error {
	log := newConsoleLogger(opt.logLevel)
	log.Info().Str("path", opt.watchPath).Msg("watching")

	prefix := opt.message
	if prefix == "" {
		prefix = "changed:"
	}
	return watch.Run(ctx, opt.watchPath, 0, func(name string) {
		msg := tgnotify.Message{Text: prefix + " " + name, ParseMode: tgnotify.ModePlain}
		if err := client.SendMessage(ctx, msg); err != nil {
			log.Warn().Str("name", name).Err(err).Msg("notify failed")
			return
		}
		log.Info().Str("name", name).Msg("notified")
	})
}

func sendToAll(ctx context.Context, chats []tgnotify.ChatID, send func(to ...tgnotify.ChatID) error) error {
	if len(chats) <= 1 {
		return send()
	}
	var failed int
	for _, chat := range chats {
		if err := send(chat); err != nil {
			fmt.Fprintf(os.Stderr, "chat %s: %v\n", chat, err)
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d chats failed", failed, len(chats))
	}
	return nil
}

func splitChats(s string) []tgnotify.ChatID {
	var out []tgnotify.ChatID
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, tgnotify.ChatID(part))
		}
	}
	return out
}

func sourceFromArg(arg string) tgnotify.Source {
	if strings.HasPrefix(arg, "http://") || strings.HasPrefix(arg, "https://") {
		return tgnotify.FromURL(arg)
	}
	return tgnotify.FromPath(arg)
}

func newConsoleLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	cw := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	return zerolog.New(cw).Level(lvl).With().Timestamp().Logger()
}
