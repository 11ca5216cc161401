package models

// Row is one record of a collection as the store returns it, keyed by column name.
type Row map[string]interface{}
