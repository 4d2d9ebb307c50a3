package intent

import (
	"reflect"
	"testing"
)

func TestFindProcedures(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"single", "how much does lasik cost", []string{"LASIK"}},
		{"two in order", "Is LASIK or SMILE better?", []string{"LASIK", "SMILE"}},
		{"order of appearance", "compare smile with lasik", []string{"SMILE", "LASIK"}},
		{"synonym resolves", "what about the implantable collamer lens", []string{"EVO ICL"}},
		{"short synonym", "is icl reversible", []string{"EVO ICL"}},
		{"no duplicates", "lasik versus lasik", []string{"LASIK"}},
		{"word boundary", "she smiled at the vehicle", nil},
		{"none", "what are your office hours", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FindProcedures(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("FindProcedures(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}
