/*
Package indexmap associates Go types with DynamoDB key patterns.

An index map names the key attributes of an item and gives a template for
each. Templates may reference fields of the value with {Field} macros:

	indexmap.Register[storagemodels.Token](map[string]string{
	    "PK": "token_by_id#{TokenID}",
	    "SK": "token_by_id#{TokenID}",
	})

	keys, err := indexmap.Expand(m, storagemodels.Token{TokenID: "tok-1"})
	// keys["PK"] == "token_by_id#tok-1"

The registry is thread-safe and is populated from init() functions of the
packages that own the item types.
*/
package indexmap
