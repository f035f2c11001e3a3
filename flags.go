package minfs

// Mode bits as stored in a MINIX inode. The layout is the traditional Unix
// one, so these double as the POSIX S_I* values.
const (
	S_IXOTH = 0o000001
	S_IWOTH = 0o000002
	S_IROTH = 0o000004
	S_IXGRP = 0o000010
	S_IWGRP = 0o000020
	S_IRGRP = 0o000040
	S_IXUSR = 0o000100
	S_IWUSR = 0o000200
	S_IRUSR = 0o000400
	S_ISVTX = 0o001000
	S_ISGID = 0o002000
	S_ISUID = 0o004000
	S_IFIFO = 0o010000
	S_IFCHR = 0o020000
	S_IFDIR = 0o040000
	S_IFBLK = 0o060000
	S_IFREG = 0o100000
	S_IFLNK = 0o120000
	S_IFMT  = 0o170000
)

const S_IRWXO = S_IXOTH | S_IWOTH | S_IROTH
const S_IRWXG = S_IXGRP | S_IWGRP | S_IRGRP
const S_IRWXU = S_IXUSR | S_IWUSR | S_IRUSR
const S_IRWXUGO = S_IRWXU | S_IRWXG | S_IRWXO

// permissionBits is in display order: user, group, other.
var permissionBits = [9]struct {
	mask   uint16
	letter byte
}{
	{S_IRUSR, 'r'}, {S_IWUSR, 'w'}, {S_IXUSR, 'x'},
	{S_IRGRP, 'r'}, {S_IWGRP, 'w'}, {S_IXGRP, 'x'},
	{S_IROTH, 'r'}, {S_IWOTH, 'w'}, {S_IXOTH, 'x'},
}

// IsDir returns true if the file type bits of `mode` say it's a directory.
func IsDir(mode uint16) bool {
	return mode&S_IFMT == S_IFDIR
}

// IsRegular returns true if the file type bits of `mode` say it's a regular
// file.
func IsRegular(mode uint16) bool {
	return mode&S_IFMT == S_IFREG
}

// PermissionString renders `mode` as a fixed ten-character string: "d" or "-",
// followed by read/write/execute for the user, group, and everyone else. Absent
// bits are shown as "-".
//
//	0o040755 -> drwxr-xr-x
//	0o100640 -> -rw-r-----
func PermissionString(mode uint16) string {
	var rendered [10]byte
	rendered[0] = '-'
	if IsDir(mode) {
		rendered[0] = 'd'
	}

	for i, bit := range permissionBits {
		if mode&bit.mask != 0 {
			rendered[i+1] = bit.letter
		} else {
			rendered[i+1] = '-'
		}
	}
	return string(rendered[:])
}
