package markdown

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPlainText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "headings and emphasis",
			in:   "## Brzi odgovor\n\nPostotak je **dio** od *cjeline*.\n",
			want: "Brzi odgovor Postotak je dio od cjeline.",
		},
		{
			name: "links keep text only",
			in:   "Koristite [kalkulator postotka](/kalkulatori/postotak) za provjeru.",
			want: "Koristite kalkulator postotka za provjeru.",
		},
		{
			name: "lists flatten",
			in:   "- prvi\n- drugi\n\n1. treći\n",
			want: "prvi drugi treći",
		},
		{
			name: "images dropped",
			in:   "![graf](/img/graf.png)\n\nTekst.",
			want: "Tekst.",
		},
		{
			name: "script blocks vanish",
			in:   "Uvod.\n\n<script type=\"application/ld+json\">\n{\"@type\":\"Article\"}\n</script>\n",
			want: "Uvod.",
		},
		{
			name: "html blocks keep visible text",
			in:   "<div class=\"note\">\nVažno\n</div>\n",
			want: "Važno",
		},
		{
			name: "code fences keep content",
			in:   "```math\nP = \\frac{d}{c}\n```\n",
			want: "P = \\frac{d}{c}",
		},
		{
			name: "entity references resolved",
			in:   "Tom &amp; Jerry &#65; &lt;3",
			want: "Tom & Jerry A <3",
		},
		{
			name: "backslash escapes removed",
			in:   "\\*zvjezdica\\* i \\_crta\\_",
			want: "*zvjezdica* i _crta_",
		},
		{
			name: "html block text unescaped",
			in:   "<div>\nR&D &lt;ok&gt;\n</div>\n",
			want: "R&D <ok>",
		},
		{
			name: "code spans stay literal",
			in:   "Upišite `a \\* b &amp; c` u polje.",
			want: "Upišite a \\* b &amp; c u polje.",
		},
		{
			name: "empty",
			in:   "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, PlainText([]byte(tt.in)))
		})
	}
}

func TestWordCount(t *testing.T) {
	require.Equal(t, 0, WordCount(""))
	require.Equal(t, 0, WordCount("   \n\t"))
	require.Equal(t, 3, WordCount(" jedan  dva\ntri "))
}
