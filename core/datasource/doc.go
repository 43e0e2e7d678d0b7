// Package datasource loads ruleset content files.
//
// Every YAML file is a mapping of named collections:
//
//	house:
//	  - name: House of Chains
//	fighter:
//	  - type: Leader
//	    house: House of Chains
//
// Each top-level key becomes one DataSource. Files are discovered in lexical order,
// parsed concurrently and reassembled in discovery order, so the output never depends
// on scheduling. Files that cannot be parsed are reported in Set.Failures and skipped.
package datasource
