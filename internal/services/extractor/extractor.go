package extractor

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"
)

// ErrPriceNotFound means the markup contains no usable price element.
var ErrPriceNotFound = errors.New("price not found in page")

const DefaultSelector = "span.a-price-whole"

var nonDigits = regexp.MustCompile(`\D`)

// Extractor pulls the displayed price out of product page markup.
type Extractor struct {
	selector string
}

func New(selector string) *Extractor {
	if selector == "" {
		selector = DefaultSelector
	}
	return &Extractor{selector: selector}
}

// Extract returns the price shown by the first element matching the
// configured selector. Every non-digit character is stripped before parsing,
// so "19,99" comes back as 1999: the ledger stores the displayed digit
// sequence, not verified currency subunits. Extract is pure.
func (e *Extractor) Extract(markup string) (int64, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return 0, errors.Wrap(err, "parse markup")
	}

	node := doc.Find(e.selector).First()
	if node.Length() == 0 {
		return 0, errors.Wrapf(ErrPriceNotFound, "no element matches %q", e.selector)
	}

	digits := nonDigits.ReplaceAllString(node.Text(), "")
	if digits == "" {
		return 0, errors.Wrapf(ErrPriceNotFound, "element %q contains no digits", e.selector)
	}

	price, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(ErrPriceNotFound, "parse %q", digits)
	}

	return price, nil
}
