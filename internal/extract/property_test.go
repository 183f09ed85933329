package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

var fragments = []string{
	"Dr. John Smith", "Smith, John", "Mary Q. Jones", "Bob Lee", "ABCD EFGH",
	"john.smith@example.com", "JOHN.SMITH@EXAMPLE.COM", "a@b.com", "A@B.com",
	"(650) 253-0000", "650-253-0000", "+41446681800", "123-456-7890",
	"call", "at", "or", ",", ".", "\n", "Acme Corporation", "x7",
}

func genText() *rapid.Generator[string] {
	return rapid.Custom(func(t *rapid.T) string {
		parts := rapid.SliceOfN(rapid.SampledFrom(fragments), 0, 20).Draw(t, "parts")
		return strings.Join(parts, " ")
	})
}

func TestExtractAllProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		text := genText().Draw(t, "text")

		res := ExtractAll(text)
		require.Equal(t, res, ExtractAll(text), "extraction is not deterministic")

		emails := make(map[string]bool)
		for _, e := range res.Emails {
			require.Equal(t, strings.ToLower(e.Email), e.Email)
			require.False(t, emails[e.Email], "duplicate email %q", e.Email)
			emails[e.Email] = true
		}

		phones := make(map[string]bool)
		for _, p := range res.Phones {
			key := normalizePhone(p.Raw)
			require.False(t, phones[key], "duplicate phone %q", key)
			require.GreaterOrEqual(t, len(key), minPhoneDigits)
			phones[key] = true
			if !p.Valid {
				require.Equal(t, p.Raw, p.Formatted)
				require.Nil(t, p.Country)
			}
		}

		names := make(map[string]bool)
		for i, n := range res.Names {
			key := strings.ToLower(n.Name)
			require.False(t, names[key], "duplicate name %q", n.Name)
			names[key] = true
			require.GreaterOrEqual(t, n.Confidence, 0.0)
			require.LessOrEqual(t, n.Confidence, 1.0)
			if i > 0 {
				require.GreaterOrEqual(t, res.Names[i-1].Confidence, n.Confidence, "names not sorted")
			}
		}
	})
}

func TestNameConfidenceBounds(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		name := rapid.StringMatching(`[A-Za-z.,]{1,12}( [A-Za-z.]{1,12}){0,3}`).Draw(t, "name")

		c := nameConfidence(name)
		if c < 0 || c > 1 {
			t.Fatalf("nameConfidence(%q) = %v, outside [0, 1]", name, c)
		}
	})
}
