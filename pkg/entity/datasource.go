package entity

import (
	"strings"
)

// DataSource is an identifier namespace such as EntrezGene or ChEBI.
type DataSource string

// Namespaces used by the bundled providers.
const (
	EntrezGene   DataSource = "EntrezGene"
	Ensembl      DataSource = "Ensembl"
	UniProt      DataSource = "UniProt"
	GenBank      DataSource = "GenBank"
	ChEBI        DataSource = "ChEBI"
	ChemSpider   DataSource = "ChemSpider"
	HMDB         DataSource = "HMDB"
	KEGGCompound DataSource = "KEGGCompound"
	KEGGGenes    DataSource = "KEGGGenes"
	EnzymeCode   DataSource = "EnzymeCode"
	PubChem      DataSource = "PubChem"
	Other        DataSource = "Other"
)

// Gene and protein namespaces accepted by interaction services.
const (
	EMBL         DataSource = "EMBL"
	FlyBase      DataSource = "FlyBase"
	GeneOntology DataSource = "GeneOntology"
	InterPro     DataSource = "InterPro"
	IPI          DataSource = "IPI"
	MGI          DataSource = "MGI"
	OMIM         DataSource = "OMIM"
	PDB          DataSource = "PDB"
	Pfam         DataSource = "Pfam"
	RefSeq       DataSource = "RefSeq"
	RGD          DataSource = "RGD"
	SGD          DataSource = "SGD"
	UniGene      DataSource = "UniGene"
	WormBase     DataSource = "WormBase"
	ZFIN         DataSource = "ZFIN"
)

// systemCodes maps namespaces to BridgeDb system codes.
var systemCodes = map[DataSource]string{
	EntrezGene:   "L",
	Ensembl:      "En",
	UniProt:      "S",
	GenBank:      "G",
	ChEBI:        "Ce",
	ChemSpider:   "Cs",
	HMDB:         "Ch",
	KEGGCompound: "Ck",
	KEGGGenes:    "Kg",
	EnzymeCode:   "E",
	PubChem:      "Cpc",
	EMBL:         "Em",
	FlyBase:      "F",
	GeneOntology: "T",
	InterPro:     "I",
	IPI:          "Ip",
	MGI:          "M",
	OMIM:         "Om",
	PDB:          "Pd",
	Pfam:         "Pf",
	RefSeq:       "Q",
	RGD:          "R",
	SGD:          "D",
	UniGene:      "U",
	WormBase:     "W",
	ZFIN:         "Z",
}

// DataSources lists the known namespaces in a stable order.
func DataSources() []DataSource {
	return []DataSource{
		EntrezGene, Ensembl, UniProt, GenBank, ChEBI, ChemSpider,
		HMDB, KEGGCompound, KEGGGenes, EnzymeCode, PubChem,
		EMBL, FlyBase, GeneOntology, InterPro, IPI, MGI, OMIM, PDB,
		Pfam, RefSeq, RGD, SGD, UniGene, WormBase, ZFIN, Other,
	}
}

// SystemCode returns the BridgeDb system code, or "" for namespaces
// BridgeDb does not know.
func (d DataSource) SystemCode() string {
	return systemCodes[d]
}

// Known reports whether d is one of the predefined namespaces.
func (d DataSource) Known() bool {
	_, ok := systemCodes[d]
	return ok || d == Other
}

func (d DataSource) String() string { return string(d) }

// ParseDataSource resolves a namespace by name or BridgeDb system code,
// ignoring case. Unknown names return Other and false.
func ParseDataSource(s string) (DataSource, bool) {
	s = strings.TrimSpace(s)
	for _, d := range DataSources() {
		if strings.EqualFold(s, string(d)) {
			return d, true
		}
	}
	for d, code := range systemCodes {
		if s == code {
			return d, true
		}
	}
	return Other, false
}

// DataSourceForCode returns the namespace for a BridgeDb system code.
func DataSourceForCode(code string) (DataSource, bool) {
	for d, c := range systemCodes {
		if c == code {
			return d, true
		}
	}
	return Other, false
}
