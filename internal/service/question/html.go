package question

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/kapu/cultureg-bot-go/internal/domain"
)

// ParseHTMLTable reads questions from the rows of the tables matched by
// selector. The first cell of a row is the prompt and the second the answer;
// header rows and rows with fewer than two cells are skipped.
func ParseHTMLTable(r io.Reader, selector string) ([]domain.Question, error) {
	if strings.TrimSpace(selector) == "" {
		selector = "table"
	}

	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}

	tables := doc.Find(selector)
	if tables.Length() == 0 {
		return nil, fmt.Errorf("no element matches %q", selector)
	}

	questions := make([]domain.Question, 0)
	tables.Find("tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 2 {
			return
		}
		prompt := normalizeText(cells.Eq(0).Text())
		answer := normalizeText(cells.Eq(1).Text())
		if prompt == "" || answer == "" {
			return
		}
		questions = append(questions, domain.Question{Prompt: prompt, Answer: answer})
	})

	return questions, nil
}

func normalizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
