package intent

import "strings"

// Procedure is a canonical procedure name with its recognized synonyms.
// One shared table serves the classifier, the query enhancer, and the
// comparison detector so they can never drift apart.
type Procedure struct {
	Name     string
	Synonyms []string
}

// Procedures lists every procedure the practice offers. Longer synonyms
// are matched before shorter ones so "evo icl" wins over "icl".
var Procedures = []Procedure{
	{Name: "LASIK", Synonyms: []string{"lasik", "laser eye surgery"}},
	{Name: "PRK", Synonyms: []string{"prk", "photorefractive keratectomy"}},
	{Name: "SMILE", Synonyms: []string{"relex smile", "smile"}},
	{Name: "EVO ICL", Synonyms: []string{"evo icl", "implantable collamer lens", "implantable lens", "icl", "evo"}},
}

// FindProcedures returns the canonical names of all procedures mentioned
// in text, in order of first appearance, without duplicates.
func FindProcedures(text string) []string {
	lower := strings.ToLower(text)

	type hit struct {
		name string
		pos  int
	}
	var hits []hit
	for _, p := range Procedures {
		best := -1
		for _, syn := range p.Synonyms {
			if pos := indexWord(lower, syn); pos >= 0 && (best < 0 || pos < best) {
				best = pos
			}
		}
		if best >= 0 {
			hits = append(hits, hit{name: p.Name, pos: best})
		}
	}

	for i := 1; i < len(hits); i++ {
		for j := i; j > 0 && hits[j].pos < hits[j-1].pos; j-- {
			hits[j], hits[j-1] = hits[j-1], hits[j]
		}
	}

	names := make([]string, len(hits))
	for i, h := range hits {
		names[i] = h.name
	}
	return names
}

// indexWord finds phrase in text at a word boundary, so "smile" does not
// match inside "smiled" and "icl" does not match inside "vehicle".
func indexWord(text, phrase string) int {
	for start := 0; ; {
		pos := strings.Index(text[start:], phrase)
		if pos < 0 {
			return -1
		}
		pos += start
		end := pos + len(phrase)
		leftOK := pos == 0 || !isWordChar(text[pos-1])
		rightOK := end == len(text) || !isWordChar(text[end])
		if leftOK && rightOK {
			return pos
		}
		start = pos + 1
	}
}

func isWordChar(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}
