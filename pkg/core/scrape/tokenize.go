package scrape

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"kabuscore/pkg/core/table"
)

// codePattern strips the 4-digit security code IRBank embeds in the
// page heading.
var codePattern = regexp.MustCompile(`\d{4}`)

// TokenizeTables parses the financial tables out of a company page.
// Only tables carrying the site's table_style class hold financial
// series; everything else on the page is navigation and ads. Rows come
// back in document order with the label in cell 0, exactly the ordering
// contract the extractor relies on.
func TokenizeTables(html string) ([]table.Table, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	var tables []table.Table
	doc.Find("table.table_style").Each(func(_ int, tbl *goquery.Selection) {
		var rows table.Table
		tbl.Find("tr").Each(func(_ int, tr *goquery.Selection) {
			var cells []string
			tr.Find("td, th").Each(func(_ int, cell *goquery.Selection) {
				cells = append(cells, strings.TrimSpace(cell.Text()))
			})
			if len(cells) == 0 {
				return
			}
			rows = append(rows, table.RowFromCells(cells))
		})
		if len(rows) > 0 {
			tables = append(tables, rows)
		}
	})

	return tables, nil
}

// ExtractCompanyName pulls the company name from the page heading,
// dropping the embedded security code. Returns "" when the heading is
// missing; record assembly substitutes the code-derived placeholder.
func ExtractCompanyName(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}

	name := strings.TrimSpace(doc.Find("h1").First().Text())
	name = strings.TrimSpace(codePattern.ReplaceAllString(name, ""))
	return name
}
