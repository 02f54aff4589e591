package kegg

import "strings"

var organismCodes = map[string]string{
	"homo sapiens":             "hsa",
	"mus musculus":             "mmu",
	"rattus norvegicus":        "rno",
	"bos taurus":               "bta",
	"danio rerio":              "dre",
	"drosophila melanogaster":  "dme",
	"caenorhabditis elegans":   "cel",
	"saccharomyces cerevisiae": "sce",
	"arabidopsis thaliana":     "ath",
	"escherichia coli":         "eco",
	"gallus gallus":            "gga",
	"sus scrofa":               "ssc",
	"canis familiaris":         "cfa",
}

// OrganismCode returns the three or four letter KEGG organism code for a
// latin species name. Codes are accepted as-is.
func OrganismCode(organism string) (string, bool) {
	key := strings.ToLower(strings.TrimSpace(organism))
	if code, ok := organismCodes[key]; ok {
		return code, true
	}
	for _, code := range organismCodes {
		if code == key {
			return code, true
		}
	}
	return "", false
}

// StripPrefix removes the database prefix of a KEGG entry ("ec:1.2.1.36"
// becomes "1.2.1.36").
func StripPrefix(entry string) string {
	if _, id, ok := strings.Cut(entry, ":"); ok {
		return id
	}
	return entry
}

// Name returns the leading name of a KEGG title, the part before the first
// semicolon ("retinal dehydrogenase; RALDH" becomes "retinal dehydrogenase").
func Name(title string) string {
	name, _, _ := strings.Cut(title, ";")
	return strings.TrimSpace(name)
}

// Symbol returns the first gene symbol of a gene title
// ("ALDH1A2, RALDH2; aldehyde dehydrogenase" becomes "ALDH1A2").
func Symbol(title string) string {
	sym, _, _ := strings.Cut(Name(title), ",")
	return strings.TrimSpace(sym)
}
