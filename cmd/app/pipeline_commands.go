package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/helpmatch/cmd/app/commands"
	"github.com/allisson/helpmatch/internal/app"
	"github.com/allisson/helpmatch/internal/config"
)

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Value:   "text",
		Usage:   "Output format: 'text' or 'json'",
	}
}

func getPipelineCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "replay-dlq",
			Usage: "Move dead-lettered messages back onto their queue",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "queue",
					Aliases:  []string{"q"},
					Required: true,
					Usage:    "Primary queue whose .dlq is drained",
				},
				&cli.IntFlag{
					Name:    "limit",
					Aliases: []string{"l"},
					Value:   100,
					Usage:   "Maximum number of messages to replay",
				},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				replayer, err := container.Replayer()
				if err != nil {
					return err
				}

				return commands.RunReplayDLQ(
					ctx,
					replayer,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("queue"),
					int(cmd.Int("limit")),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "inject-malformed",
			Usage: "Publish messages the worker must dead-letter (requires DEV_ENDPOINTS_ENABLED)",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "queue",
					Aliases:  []string{"q"},
					Required: true,
					Usage:    "Queue receiving the malformed messages",
				},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				publisher, err := container.Publisher()
				if err != nil {
					return err
				}

				return commands.RunInjectMalformed(
					ctx,
					publisher,
					container.Logger(),
					commands.DefaultIO().Writer,
					cfg.DevEndpointsEnabled,
					cmd.String("queue"),
					cmd.String("format"),
				)
			},
		},
	}
}
