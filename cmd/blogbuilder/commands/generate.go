package commands

import (
	"context"
	"fmt"

	ferrors "github.com/kalkulator/blogbuilder/internal/foundation/errors"
	"github.com/kalkulator/blogbuilder/internal/generator"
	"github.com/kalkulator/blogbuilder/internal/logfields"
	"github.com/kalkulator/blogbuilder/internal/post"
	"github.com/kalkulator/blogbuilder/internal/templates"
)

// GenerateCmd implements the 'generate' command.
type GenerateCmd struct {
	Input       string `arg:"" name:"input" help:"Path to the post input JSON file"`
	NoOverwrite bool   `name:"no-overwrite" help:"Fail instead of replacing a post with the same slug"`
}

func (g *GenerateCmd) Run(global *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	in, err := post.ReadInput(g.Input)
	if err != nil {
		return err
	}
	store, err := templates.LoadStore(cfg.TemplatesPath)
	if err != nil {
		return err
	}

	gen := generator.New(generator.Config{
		SiteURL:    cfg.SiteURL,
		ContentDir: cfg.ContentDir,
		Language:   cfg.LanguageTag(),
		Publisher: generator.Publisher{
			Name:    cfg.Publisher.Name,
			LogoURL: cfg.Publisher.LogoURL,
		},
		NoOverwrite: g.NoOverwrite,
	}, store, global.logger())

	path, err := gen.Generate(context.Background(), in)
	if err != nil {
		if ferrors.HasCategory(err, ferrors.CategoryAlreadyExists) {
			global.logger().Info("Run without --no-overwrite to replace the existing post", logfields.Slug(in.Slug))
		}
		return err
	}
	_, _ = fmt.Fprintln(global.out(), path)
	return nil
}
