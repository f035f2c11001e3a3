// Package compression stores disk images compactly using run-length encoding
// followed by gzip.
//
// File system images are mostly runs of null bytes, such as unused zones and
// empty inode slots. Run-length encoding the raw image first and then
// gzipping the result compresses these far better than gzip alone, so test
// fixtures and sample images are kept in this form with the suffix ".rle.gz".
//
// The run-length scheme is RLE8, the one used by the Microsoft BMP format. If a
// byte B occurs N times where N >= 2, B is written twice, followed by a third
// (unsigned) byte giving how many additional times B occurred:
//
//	WXXXXXXXXXXXXXXXYZZ
//	W XX 13 Y ZZ 0
//
// One group holds a run of at most 257 bytes. Longer runs are split into
// several groups. A byte occurring exactly twice costs three bytes, since the
// byte is its own escape sequence.
package compression
