// Package io exports requirement graphs as JSON.
//
// # JSON Format
//
//	{
//	  "nodes": [
//	    {"id": "click", "row": 1, "meta": {"version": "8.1.7"}},
//	    {"id": "flask", "row": 0, "meta": {"version": "3.0.2", "root": true}}
//	  ],
//	  "edges": [
//	    {"from": "flask", "to": "click"}
//	  ]
//	}
//
// Nodes are sorted by id. Each edge means "from requires to"; edges that
// close a requirement cycle carry "cycle": true. Node meta holds the keys
// documented in package dag (version, display, editable, root).
package io
