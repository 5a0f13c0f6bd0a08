package question

import (
	"strings"
	"testing"
)

const sampleTable = `
<html><body>
<table id="quiz">
  <tr><th>Question</th><th>Réponse</th></tr>
  <tr><td>Quelle est la capitale
      du Japon ?</td><td> Tokyo </td></tr>
  <tr><td>Combien de continents y a-t-il sur Terre ?</td><td>7</td></tr>
  <tr><td>Ligne incomplète</td></tr>
  <tr><td>Sans réponse</td><td>   </td></tr>
</table>
<table id="other"><tr><td>Ignored</td><td>Row</td></tr></table>
</body></html>`

func TestParseHTMLTable(t *testing.T) {
	questions, err := ParseHTMLTable(strings.NewReader(sampleTable), "#quiz")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(questions) != 2 {
		t.Fatalf("expected 2 questions, got %d: %+v", len(questions), questions)
	}
	if questions[0].Prompt != "Quelle est la capitale du Japon ?" || questions[0].Answer != "Tokyo" {
		t.Fatalf("unexpected first question %+v", questions[0])
	}
	if questions[1].Answer != "7" {
		t.Fatalf("unexpected second answer %q", questions[1].Answer)
	}
}

func TestParseHTMLTableDefaultsToEveryTable(t *testing.T) {
	questions, err := ParseHTMLTable(strings.NewReader(sampleTable), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(questions) != 3 {
		t.Fatalf("expected rows from both tables, got %d", len(questions))
	}
}

func TestParseHTMLTableMissingSelector(t *testing.T) {
	if _, err := ParseHTMLTable(strings.NewReader(sampleTable), "#missing"); err == nil {
		t.Fatalf("expected an error for a selector without matches")
	}
}
