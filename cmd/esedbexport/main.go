// esedbexport exports tables of an Exchange mail store as tab-separated
// text, decoding the timestamp, integer, GUID, SID and string properties
// that the store keeps in generic binary columns.
//
// Usage:
//
//	# Export the tables listed in the configuration file
//	esedbexport export --config esedbexport.yaml
//
//	# Export a single table as JSON into ./out
//	esedbexport export --table Mailbox --format json --output out
//
//	# Show how a column would be decoded
//	esedbexport classify --schema folders Ttag binary
package main

func main() {
	Execute()
}
