package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"pass.share/cmd/flags"
	"pass.share/internal/issuer"
	"pass.share/internal/locale"
	"pass.share/internal/logging"
	"pass.share/internal/redeemer"
	"pass.share/internal/shareapi"
)

type clipboardWriter interface {
	WriteText(text string) error
}

type env struct {
	out       io.Writer
	clipboard clipboardWriter
	engine    *locale.Engine
	client    *shareapi.Client
	origin    string
	log       *zap.Logger
}

var availabilityFlags = []cli.Flag{
	&cli.IntFlag{Name: "views", Value: issuer.MinViews, Usage: "maximum number of views (1-5)"},
	&cli.IntFlag{Name: "days", Value: issuer.MinDays, Usage: "days the link stays available (1-7)"},
	&cli.BoolFlag{Name: "copy", Usage: "copy the result to the clipboard"},
}

func newApp(out io.Writer, clip clipboardWriter) *cli.App {
	var e env

	return &cli.App{
		Name:      "pwshare",
		Usage:     "Share passwords through one-time links",
		Writer:    out,
		ErrWriter: out,
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:    "api-url",
				Value:   "http://localhost:8080",
				Usage:   "share API base URL",
				EnvVars: []string{"API_URL"},
			},
			&cli.StringFlag{
				Name:    "origin",
				Value:   "http://localhost:3000",
				Usage:   "origin share links are built on",
				EnvVars: []string{"BASE_URL"},
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Value: 15 * time.Second,
				Usage: "share API request timeout",
			},
		}, flags.LogFlags("pwshare")...),
		Before: func(cCtx *cli.Context) error {
			// Logging stays off unless --log-debug is given.
			logger := zap.NewNop()
			if cCtx.Bool(flags.LogDebugFlag.Name) {
				var err error
				logger, err = logging.New(logging.Options{
					Debug:   true,
					JSON:    cCtx.Bool(flags.LogJSONFlag.Name),
					Service: cCtx.String("log-service"),
					UID:     cCtx.Bool(flags.LogUIDFlag.Name),
				})
				if err != nil {
					return err
				}
			}
			e = env{
				out:       out,
				clipboard: clip,
				engine:    locale.NewEngine(locale.EnvProbe),
				client:    shareapi.NewClient(cCtx.String("api-url"), cCtx.Duration("timeout"), logger),
				origin:    cCtx.String("origin"),
				log:       logger,
			}
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "generate",
				Usage: "generate a random password and print its share link",
				Flags: append([]cli.Flag{
					&cli.IntFlag{Name: "size", Value: issuer.DefaultShareOptions().Size, Usage: "password length (4-128)"},
					&cli.BoolFlag{Name: "numbers", Value: true, Usage: "include numbers"},
					&cli.BoolFlag{Name: "symbols", Value: true, Usage: "include symbols"},
				}, availabilityFlags...),
				Action: func(cCtx *cli.Context) error { return e.generate(cCtx) },
			},
			{
				Name:  "share",
				Usage: "share your own password and print its link",
				Flags: append([]cli.Flag{
					&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Usage: "password to share (4-128 characters)"},
				}, availabilityFlags...),
				Action: func(cCtx *cli.Context) error { return e.share(cCtx) },
			},
			{
				Name:      "view",
				Usage:     "redeem a share link or token",
				ArgsUsage: "<link-or-token>",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "copy", Usage: "copy the password to the clipboard"},
				},
				Action: func(cCtx *cli.Context) error { return e.view(cCtx) },
			},
		},
	}
}

func (e *env) newIssuer(cCtx *cli.Context, opts issuer.ShareOptions) (*issuer.Issuer, error) {
	iss := issuer.New(issuer.Config{
		API:        e.client,
		Translator: e.engine,
		Clipboard:  e.clipboard,
		Logger:     e.log,
		Origin:     e.origin,
	})
	opts.ViewsLeft = cCtx.Int("views")
	opts.DaysAvailable = cCtx.Int("days")
	if err := iss.SetOptions(opts); err != nil {
		iss.Close()
		return nil, err
	}
	return iss, nil
}

func (e *env) generate(cCtx *cli.Context) error {
	opts := issuer.ShareOptions{
		Size:           cCtx.Int("size"),
		IncludeNumbers: cCtx.Bool("numbers"),
		IncludeSymbols: cCtx.Bool("symbols"),
	}
	iss, err := e.newIssuer(cCtx, opts)
	if err != nil {
		return err
	}
	defer iss.Close()

	return e.finishIssue(cCtx, iss, iss.GenerateRandom(cCtx.Context))
}

func (e *env) share(cCtx *cli.Context) error {
	iss, err := e.newIssuer(cCtx, issuer.DefaultShareOptions())
	if err != nil {
		return err
	}
	defer iss.Close()

	if err := iss.UpdatePasswordField(cCtx.String("password")); err != nil {
		return err
	}
	return e.finishIssue(cCtx, iss, iss.SubmitCustom(cCtx.Context))
}

func (e *env) finishIssue(cCtx *cli.Context, iss *issuer.Issuer, err error) error {
	var ve *issuer.ValidationError
	var te *issuer.TransportError
	switch {
	case errors.As(err, &ve):
		return cli.Exit(ve.Message, 2)
	case errors.As(err, &te):
		e.log.Debug("issuance failed", zap.Error(te.Err))
		return cli.Exit(te.Message, 1)
	case err != nil:
		return err
	}

	v := iss.Snapshot()
	fmt.Fprintln(e.out, v.Link)
	fmt.Fprintf(e.out, "%s %s\n", e.engine.T(locale.KeyAvailableUntilFirst), v.Availability)

	if cCtx.Bool("copy") {
		if err := iss.CopyLink(); err != nil {
			return err
		}
		fmt.Fprintln(e.out, e.engine.T("Link copied to clipboard!"))
	}
	return nil
}

func (e *env) view(cCtx *cli.Context) error {
	if cCtx.NArg() != 1 {
		return cli.Exit("expected exactly one link or token", 2)
	}

	rdm := redeemer.New(redeemer.Config{
		API:       e.client,
		Formatter: e.engine,
		Clipboard: e.clipboard,
		Logger:    e.log,
	})
	defer rdm.Close()

	if err := rdm.Load(cCtx.Context, TokenFromArg(cCtx.Args().First())); err != nil {
		return cli.Exit(rdm.Snapshot().Message, 1)
	}

	rdm.ToggleReveal()
	v := rdm.Snapshot()
	fmt.Fprintln(e.out, v.Password)
	fmt.Fprintln(e.out, v.Availability)
	fmt.Fprintf(e.out, "%s %s\n", e.engine.T(locale.KeyCreatedOn), v.CreatedAt)

	if cCtx.Bool("copy") {
		if err := rdm.CopySecret(); err != nil {
			return err
		}
	}
	return nil
}

// TokenFromArg accepts a full share link or a bare token and returns the
// token still escaped, the way it appears in the link path.
func TokenFromArg(arg string) string {
	if i := strings.Index(arg, "/view/"); i >= 0 {
		arg = arg[i+len("/view/"):]
	}
	if i := strings.IndexAny(arg, "?#"); i >= 0 {
		arg = arg[:i]
	}
	return strings.TrimSuffix(arg, "/")
}
