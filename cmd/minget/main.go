package main

import (
	"fmt"
	"os"

	"github.com/dargueta/minfs/drivers/minix"
	"github.com/dargueta/minfs/errors"
	"github.com/dargueta/minfs/utilities/imagecli"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func newApp() *cli.App {
	return &cli.App{
		Name:      "minget",
		Usage:     "Copy a regular file out of a MINIX file system image",
		ArgsUsage: "IMAGE SRCPATH [DSTPATH]",
		Flags:     imagecli.Flags(),
		Before:    imagecli.ConfigureLogging,
		Action:    copyFile,
	}
}

func main() {
	err := newApp().Run(os.Args)
	if err != nil {
		logrus.Fatal(err)
	}
}

func copyFile(ctx *cli.Context) error {
	if ctx.NArg() < 2 || ctx.NArg() > 3 {
		return errors.ErrInvalidArgument.WithMessage(
			"usage: minget [options] IMAGE SRCPATH [DSTPATH]")
	}

	session, err := imagecli.Open(ctx, ctx.Args().Get(0))
	if err != nil {
		return err
	}
	defer session.Close()

	target, err := session.Resolve(ctx.Args().Get(1))
	if err != nil {
		return err
	}
	// Check before creating the destination so a bad source leaves nothing
	// behind.
	if !target.Inode.IsRegular() {
		return errors.ErrNotARegularFile.WithMessage(
			fmt.Sprintf("can't copy %q", target.PathString()))
	}

	destination := ctx.Args().Get(2)
	if destination == "" {
		_, err = session.FileSystem.CopyFileContents(target, ctx.App.Writer)
		return err
	}
	return copyToFile(session, target, destination)
}

func copyToFile(
	session *imagecli.Session, target *minix.ResolvedTarget, destination string,
) error {
	file, err := os.Create(destination)
	if err != nil {
		return errors.ErrIOFailed.Wrap(err)
	}

	n, err := session.FileSystem.CopyFileContents(target, file)
	if err != nil {
		file.Close()
		return err
	}
	err = file.Close()
	if err != nil {
		return errors.ErrIOFailed.Wrap(err)
	}

	logrus.Debugf("copied %d bytes from %q to %q", n, target.PathString(), destination)
	return nil
}
