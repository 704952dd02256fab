package main

import (
	"bytes"
	"fmt"
	"text/template"
)

var funcMap = template.FuncMap{
	"hex16": func(v uint16) string { return fmt.Sprintf("0x%04X", v) },
	"quote": func(s string) string { return fmt.Sprintf("%q", s) },
}

var namesTmpl = template.Must(template.New("names").Funcs(funcMap).Parse(`// Code generated by gattdecode-uuidgen. DO NOT EDIT.

package {{.Package}}

// assigned lists the 16-bit characteristic UUIDs in ascending order.
var assigned = []Characteristic{
{{- range .Characteristics}}
	{UUID: {{hex16 .UUID}}, Name: {{quote .Name}}},
{{- end}}
}
`))

// Generate renders the assigned table as Go source.
func Generate(pkg string, list []Assigned) (string, error) {
	var buf bytes.Buffer
	err := namesTmpl.Execute(&buf, struct {
		Package         string
		Characteristics []Assigned
	}{pkg, list})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
