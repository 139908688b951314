// Package config loads instance configuration for mande from YAML or JSON
// files.
//
// A file holds a top-level profile (base URL, headers, query, response mode
// and variables) plus named environments layered over it:
//
//	baseUrl: https://{{host}}/api
//	variables:
//	  host: api.example.com
//	headers:
//	  X-Client: mande
//	environments:
//	  staging:
//	    variables:
//	      host: staging.example.com
//	    headers:
//	      Accept: null   # remove the built-in Accept header
//
// Basic Usage:
//
//	f, err := config.Load("mande.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	p, err := f.Resolve("staging")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	api := http.New(p.BaseURL, http.WithOptions(p.Options()))
//
// Variable Substitution:
//
// Variables are merged like headers, environment over top level, and then
// substituted into the base URL, header values and query values using the
// {{variableName}} syntax.
//
// Validation:
//
// Load validates the file; Validate can be called directly and returns a
// ValidationErrors slice listing every problem with its dotted path.
package config
