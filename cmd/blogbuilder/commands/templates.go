package commands

import (
	"fmt"

	"github.com/kalkulator/blogbuilder/internal/templates"
)

// TemplatesCmd implements 'blogbuilder templates'.
type TemplatesCmd struct{}

func (t *TemplatesCmd) Run(global *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	store, err := templates.LoadStore(cfg.TemplatesPath)
	if err != nil {
		return err
	}

	out := global.out()
	for i, category := range store.Categories() {
		tpl, _ := store.Lookup(category)
		_, _ = fmt.Fprintf(out, "%d) %s\t%s\n", i+1, category, tpl.CalculatorDefault.Title)
	}
	return nil
}
