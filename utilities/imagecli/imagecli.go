// Package imagecli holds what the minls and minget commands share: their
// common flags, logging setup, and opening the file system an invocation
// points at.
package imagecli

import (
	"github.com/dargueta/minfs"
	"github.com/dargueta/minfs/disks"
	"github.com/dargueta/minfs/drivers/mbr"
	"github.com/dargueta/minfs/drivers/minix"
	"github.com/dargueta/minfs/utilities/report"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

// Flags returns new instances of the flags every image command takes.
func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:    "partition",
			Aliases: []string{"p"},
			Value:   mbr.NoPartition,
			Usage:   "select partition for filesystem (default: none)",
			EnvVars: []string{"MINFS_PARTITION"},
		},
		&cli.IntFlag{
			Name:    "subpartition",
			Aliases: []string{"s"},
			Value:   mbr.NoPartition,
			Usage:   "select subpartition for filesystem (default: none)",
			EnvVars: []string{"MINFS_SUBPARTITION"},
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "print the partition table, superblock and inode to stderr",
		},
		&cli.BoolFlag{
			Name:    "debug",
			Usage:   "enable debug logging",
			EnvVars: []string{"MINFS_DEBUG"},
		},
	}
}

// ConfigureLogging is a `Before` hook that sends log output to the app's error
// writer, at debug level if --debug was given.
func ConfigureLogging(ctx *cli.Context) error {
	logrus.SetOutput(ctx.App.ErrWriter)
	if ctx.Bool("debug") {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.WarnLevel)
	}
	return nil
}

// Session is an open image and the file system selected in it.
type Session struct {
	Image      *disks.Image
	FileSystem *minix.FileSystem
	ctx        *cli.Context
}

// Open opens the image at `path` and the file system selected by the
// --partition and --subpartition flags.
func Open(ctx *cli.Context, path string) (*Session, error) {
	img, err := disks.OpenImage(path)
	if err != nil {
		return nil, err
	}

	partition := ctx.Int("partition")
	subpartition := ctx.Int("subpartition")
	driver, err := minix.Open(img, partition, subpartition)
	if err != nil {
		img.Close()
		return nil, err
	}

	session := &Session{Image: img, FileSystem: driver, ctx: ctx}
	if ctx.Bool("verbose") {
		err = session.printLayout(partition, subpartition)
		if err != nil {
			session.Close()
			return nil, err
		}
	}
	return session, nil
}

func (session *Session) printLayout(partition, subpartition int) error {
	w := session.ctx.App.ErrWriter
	report.PrintImage(w, session.Image)

	if partition != mbr.NoPartition {
		table, err := mbr.ReadPartitionTable(session.Image, 0)
		if err != nil {
			return err
		}
		report.PrintPartitionTable(w, table, 0)

		if subpartition != mbr.NoPartition {
			offset := table[partition].Offset()
			subtable, err := mbr.ReadPartitionTable(session.Image, offset)
			if err != nil {
				return err
			}
			report.PrintPartitionTable(w, subtable, offset)
		}
	}
	return report.PrintSuperblock(w, session.FileSystem)
}

// Resolve resolves a slash-separated path in the file system, and prints the
// inode it found if --verbose was given.
func (session *Session) Resolve(path string) (*minix.ResolvedTarget, error) {
	target, err := session.FileSystem.ResolvePath(minfs.SplitPath(path))
	if err != nil {
		return nil, err
	}
	if session.ctx.Bool("verbose") {
		report.PrintInode(session.ctx.App.ErrWriter, &target.Inode)
	}
	return target, nil
}

func (session *Session) Close() error {
	if session.Image == nil {
		return nil
	}
	err := session.Image.Close()
	session.Image = nil
	return err
}
