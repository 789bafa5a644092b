package main

import (
	"context"
	"io"

	"github.com/pkg/errors"

	"github.com/jingkaihe/skillchat/pkg/config"
	"github.com/jingkaihe/skillchat/pkg/llm"
	"github.com/jingkaihe/skillchat/pkg/logger"
	"github.com/jingkaihe/skillchat/pkg/presenter"
	"github.com/jingkaihe/skillchat/pkg/repl"
	"github.com/jingkaihe/skillchat/pkg/skills"
)

// runChat loads the configuration, scans the skills directory and runs the
// chat loop on in until it ends.
func runChat(ctx context.Context, in io.Reader) error {
	v, err := config.NewViper()
	if err != nil {
		return errors.Wrap(err, "failed to load configuration")
	}

	cfg, err := config.Load(ctx, v)
	if err != nil {
		return errors.Wrap(err, "failed to load configuration")
	}
	if err := logger.Configure(cfg.LogLevel, cfg.LogFormat); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "invalid configuration")
	}
	if used := v.ConfigFileUsed(); used != "" {
		logger.G(ctx).WithField("config_file", used).Debug("loaded config file")
	}

	client, err := llm.NewClient(cfg.LLMOptions())
	if err != nil {
		return err
	}

	repo := skills.Scan(ctx, cfg.SkillsDir)

	p := presenter.Default()
	p.SetRenderMarkdown(cfg.RenderMarkdown)
	p.SetQuiet(cfg.Quiet)

	loop := repl.New(in, p, repo, skills.NewSession(), client, repl.Options{
		SystemPrompt:    cfg.SystemPrompt,
		HistoryMessages: cfg.HistoryMessages,
		Host:            cfg.Host,
		Model:           cfg.Model,
		Provider:        cfg.Provider,
	})
	return loop.Run(ctx)
}
