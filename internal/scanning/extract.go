package scanning

import (
	"regexp"
	"strings"
)

var (
	// a total/amount keyword or currency sign, then the numeric token;
	// the gap may hold NBSP or other Unicode spaces
	amountPattern = regexp.MustCompile(`(?i)(?:total|amount|\$|₹)[\s\v\p{Zs}]*([\d,.]+)`)
	// three numeric groups split by / or -; no calendar validation
	datePattern = regexp.MustCompile(`(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})`)
	// labelled merchant line, the remainder of the line is the name
	merchantPattern = regexp.MustCompile(`(?i)(?:merchant|store|market|shop|restaurant):[\s\v\p{Zs}]*([^\n]+)`)
)

// Extract pulls the amount, date and merchant out of a transcript.
// Each field takes the first match in the text and is left empty when
// nothing matches. Values are returned verbatim apart from trimming the
// merchant name.
func Extract(text string) Record {
	return Record{
		Amount:   firstGroup(amountPattern, text),
		Date:     firstGroup(datePattern, text),
		Merchant: strings.TrimSpace(firstGroup(merchantPattern, text)),
	}
}

func firstGroup(re *regexp.Regexp, text string) string {
	m := re.FindStringSubmatch(text)
	if len(m) < 2 {
		return ""
	}
	return m[1]
}
