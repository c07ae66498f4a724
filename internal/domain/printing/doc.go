// Package printing contains the Printing bounded context.
// This context describes receipt layouts as schemas of named drawing steps,
// the document data those steps read, and the print jobs that carry a
// rendered ESC/POS stream from a point-of-sale terminal to its printer.
package printing
