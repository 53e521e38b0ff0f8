package generator

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/kalkulator/blogbuilder/internal/foundation"
	"github.com/kalkulator/blogbuilder/internal/logfields"
	"github.com/kalkulator/blogbuilder/internal/post"
	"github.com/kalkulator/blogbuilder/internal/templates"
)

// Section identifiers accepted in a template's section_order.
const (
	SectionIntro          = "intro"
	SectionQuickAnswer    = "quick_answer"
	SectionWhatIs         = "what_is"
	SectionFormula        = "formula"
	SectionExamples       = "examples"
	SectionHowToUse       = "how_to_use"
	SectionCommonMistakes = "common_mistakes"
	SectionFAQ            = "faq"
	SectionConclusion     = "conclusion"
	SectionRelatedLinks   = "related_links"
)

// FAQHeading is the default heading of the FAQ section ("često postavljana pitanja").
const FAQHeading = "ČPP"

// SectionContext is everything a section builder may read. It is resolved once per post.
type SectionContext struct {
	Input        post.Input
	Template     templates.ContentTemplate
	KeywordTitle string
	Calculator   post.Calculator
	Related      []post.Calculator
}

// SectionBuilder renders one body section as markdown.
type SectionBuilder func(SectionContext) string

var sectionBuilders = map[string]SectionBuilder{
	SectionIntro:          buildIntro,
	SectionQuickAnswer:    buildQuickAnswer,
	SectionWhatIs:         buildWhatIs,
	SectionFormula:        buildFormula,
	SectionExamples:       buildExamples,
	SectionHowToUse:       buildHowToUse,
	SectionCommonMistakes: buildCommonMistakes,
	SectionFAQ:            buildFAQ,
	SectionConclusion:     buildConclusion,
	SectionRelatedLinks:   buildRelatedLinks,
}

// IsKnownSection reports whether id has a registered builder.
func IsKnownSection(id string) bool {
	_, ok := sectionBuilders[id]
	return ok
}

// AssembleBody renders the sections named by the template's section_order, in order.
// Unknown identifiers are skipped.
func AssembleBody(sc SectionContext, logger *slog.Logger) string {
	if logger == nil {
		logger = slog.Default()
	}
	parts := make([]string, 0, len(sc.Template.SectionOrder))
	for _, id := range sc.Template.SectionOrder {
		build, ok := sectionBuilders[id]
		if !ok {
			logger.Debug("Skipping unknown section", logfields.Section(id), logfields.Slug(sc.Input.Slug))
			continue
		}
		if s := strings.TrimSpace(build(sc)); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "\n\n")
}

func section(heading, body string) string {
	return "## " + heading + "\n\n" + strings.TrimSpace(body)
}

func calculatorLink(c post.Calculator) string {
	if c.Link == "" {
		return c.Title
	}
	return fmt.Sprintf("[%s](%s)", c.Title, c.Link)
}

func bullets(items []string) string {
	var b strings.Builder
	for i, item := range items {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("- ")
		b.WriteString(strings.TrimSpace(item))
	}
	return b.String()
}

func numbered(items []string) string {
	var b strings.Builder
	for i, item := range items {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%d. %s", i+1, strings.TrimSpace(item))
	}
	return b.String()
}

func quoted(items []string) string {
	q := make([]string, len(items))
	for i, item := range items {
		q[i] = "„" + strings.TrimSpace(item) + "“"
	}
	return strings.Join(q, ", ")
}

func buildIntro(sc SectionContext) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s je pitanje koje si postavlja mnogo ljudi. U ovom vodiču korak po korak objašnjavamo postupak, "+
		"pokazujemo primjere i upozoravamo na najčešće greške.", sc.KeywordTitle)
	b.WriteString(foundation.Resolve(foundation.NonEmpty(sc.Template.QueryVariants),
		func(variants []string) string {
			return " Odgovor vrijedi i za pretrage poput " + quoted(variants) + "."
		},
		func() string { return "" },
	))
	fmt.Fprintf(&b, "\n\nAko vam treba samo rezultat, odmah upotrijebite %s.", calculatorLink(sc.Calculator))
	return b.String()
}

func buildQuickAnswer(sc SectionContext) string {
	body := foundation.Resolve(foundation.NonBlank(strings.TrimSpace(sc.Input.QuickAnswer)),
		func(answer string) string { return answer },
		func() string {
			return fmt.Sprintf("Najbrže je koristiti %s: upišite poznate vrijednosti i rezultat se prikazuje odmah.",
				calculatorLink(sc.Calculator))
		},
	)
	return section(sc.Template.Heading(SectionQuickAnswer, "Brzi odgovor"), body)
}

func buildWhatIs(sc SectionContext) string {
	body := foundation.Resolve(foundation.NonBlank(strings.TrimSpace(sc.Input.Description)),
		func(desc string) string { return desc },
		func() string {
			return fmt.Sprintf("%s se svodi na jednostavan odnos između poznatih i nepoznatih vrijednosti. "+
				"Kad razumijete taj odnos, izračun možete provjeriti i bez alata.", sc.KeywordTitle)
		},
	)
	return section(sc.Template.Heading(SectionWhatIs, "Što trebate znati"), body)
}

func buildFormula(sc SectionContext) string {
	return foundation.Resolve(foundation.FromPointer(sc.Input.ManualFormula),
		func(f post.ManualFormula) string {
			heading := strings.TrimSpace(f.Heading)
			if heading == "" {
				heading = sc.Template.Heading(SectionFormula, "Formula")
			}
			body := strings.TrimSpace(f.Prose)
			if latex := strings.TrimSpace(f.Latex); latex != "" {
				if body != "" {
					body += "\n\n"
				}
				body += "```math\n" + latex + "\n```"
			}
			return section(heading, body)
		},
		func() string {
			body := "Opći oblik izračuna izgleda ovako:\n\n```\nrezultat = ulazna vrijednost × faktor\n```\n\n" +
				fmt.Sprintf("Točan faktor ovisi o vrsti izračuna; %s ga primjenjuje automatski.", calculatorLink(sc.Calculator))
			return section(sc.Template.Heading(SectionFormula, "Formula"), body)
		},
	)
}

func buildExamples(sc SectionContext) string {
	body := foundation.Resolve(foundation.NonEmpty(sc.Input.Examples),
		func(examples []post.Example) string {
			blocks := make([]string, 0, len(examples))
			for _, ex := range examples {
				blocks = append(blocks, "### "+strings.TrimSpace(ex.Title)+"\n\n"+numbered(ex.Steps))
			}
			return strings.Join(blocks, "\n\n")
		},
		func() string {
			return "### Primjer\n\n" + numbered([]string{
				"Zapišite vrijednosti koje već znate.",
				"Uvrstite ih u formulu iz prethodnog odjeljka.",
				fmt.Sprintf("Usporedite rezultat s izračunom koji daje %s.", calculatorLink(sc.Calculator)),
			})
		},
	)
	return section(sc.Template.Heading(SectionExamples, "Primjeri"), body)
}

func buildHowToUse(sc SectionContext) string {
	body := numbered([]string{
		fmt.Sprintf("Otvorite %s.", calculatorLink(sc.Calculator)),
		"Upišite poznate vrijednosti u odgovarajuća polja.",
		"Pročitajte rezultat i po potrebi promijenite ulazne podatke.",
	})
	return section(sc.Template.Heading(SectionHowToUse, "Kako koristiti "+sc.Calculator.Title), body)
}

func buildCommonMistakes(sc SectionContext) string {
	items := foundation.NonEmpty(sc.Input.CommonMistakes).UnwrapOrElse(func() []string {
		return foundation.NonEmpty(sc.Template.MistakeHints).UnwrapOr([]string{
			"Pogrešno prepisane ulazne vrijednosti.",
			"Miješanje mjernih jedinica.",
			"Prerano zaokruživanje međurezultata.",
		})
	})
	return section(sc.Template.Heading(SectionCommonMistakes, "Najčešće greške"), bullets(items))
}

func buildFAQ(sc SectionContext) string {
	items := foundation.NonEmpty(sc.Input.FAQ).UnwrapOrElse(func() []post.FAQItem {
		return []post.FAQItem{
			{
				Question: "Je li kalkulator besplatan?",
				Answer:   "Da, svi kalkulatori na stranici besplatni su i ne traže registraciju.",
			},
			{
				Question: "Koliko je izračun točan?",
				Answer:   "Rezultat je točan onoliko koliko su točni uneseni podaci; zaokruživanje se radi tek na kraju.",
			},
		}
	})
	blocks := make([]string, 0, len(items))
	for _, item := range items {
		blocks = append(blocks, "### "+strings.TrimSpace(item.Question)+"\n\n"+strings.TrimSpace(item.Answer))
	}
	return section(sc.Template.Heading(SectionFAQ, FAQHeading), strings.Join(blocks, "\n\n"))
}

func buildConclusion(sc SectionContext) string {
	body := fmt.Sprintf("%s nije komplicirano kad znate formulu i redoslijed koraka. "+
		"Za brzu provjeru rezultata upotrijebite %s.", sc.KeywordTitle, calculatorLink(sc.Calculator))
	return section(sc.Template.Heading(SectionConclusion, "Zaključak"), body)
}

func buildRelatedLinks(sc SectionContext) string {
	links := foundation.NonEmpty(sc.Related).UnwrapOr([]post.Calculator{sc.Calculator})
	items := make([]string, 0, len(links))
	for _, c := range links {
		items = append(items, calculatorLink(c))
	}
	return section(sc.Template.Heading(SectionRelatedLinks, "Povezani kalkulatori"), bullets(items))
}
