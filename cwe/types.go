package cwe

import (
	"encoding/json"
	"fmt"
)

const (
	// URL is the base url of the CWE catalog
	URL = "https://cwe.mitre.org/"
	// Acronym is the acronym of CWE
	Acronym = "CWE"
	// Version the CWE version
	Version = "4.4"
	// ReleaseDateUtc the release Date of CWE Version
	ReleaseDateUtc = "2021-03-15"
	// Organization MITRE
	Organization = "MITRE"
	// Description the description of CWE
	Description = "The MITRE Common Weakness Enumeration"
)

var (
	// InformationURI link to the published CWE PDF
	InformationURI = fmt.Sprintf("%sdata/published/cwe_v%s.pdf/", URL, Version)
	// DownloadURI link to the zipped XML of the CWE list
	DownloadURI = fmt.Sprintf("%sdata/xml/cwec_v%s.xml.zip", URL, Version)
)

// Weakness defines a CWE weakness based on http://cwe.mitre.org/data/xsd/cwe_schema_v6.4.xsd
type Weakness struct {
	ID          string
	Name        string
	Description string
}

// SprintURL format the CWE URL
func (w *Weakness) SprintURL() string {
	return fmt.Sprintf("%sdata/definitions/%s.html", URL, w.ID)
}

// SprintID format the CWE ID
func (w *Weakness) SprintID() string {
	id := "0000"
	if w != nil {
		id = w.ID
	}
	return fmt.Sprintf("%s-%s", Acronym, id)
}

// MarshalJSON print only id and URL
func (w *Weakness) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		ID  string `json:"id"`
		URL string `json:"url"`
	}{
		ID:  w.ID,
		URL: w.SprintURL(),
	})
}

// MarshalYAML print only id and URL
func (w *Weakness) MarshalYAML() (interface{}, error) {
	return map[string]string{"id": w.ID, "url": w.SprintURL()}, nil
}
