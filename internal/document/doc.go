// Package document loads metadata documents: YAML files that declare classes
// and their metadata without Go types. A loaded document becomes an
// annotation.Catalog.
//
// # Schema Overview
//
//	version: "1"
//	classes:
//	  - name: accounts.Account
//	    extends: accounts.Base        # a name or a list of names
//	    metadata:                     # class-level items
//	      - type: form
//	      - name: account
//	    properties:
//	      - name: username
//	        element: login            # element name, defaults to name
//	        metadata:
//	          - required
//	          - validator: {name: StringLength, options: {min: 3}}
//	      - name: phones
//	        class: accounts.Phone     # composed class when no target is named
//	        collection: true
//	        metadata:
//	          - composed_object
//
// Metadata entries use the same syntax as struct tags: a bare kind, or a
// mapping of kinds to payloads.
package document
