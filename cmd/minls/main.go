package main

import (
	"os"

	"github.com/dargueta/minfs"
	"github.com/dargueta/minfs/errors"
	"github.com/dargueta/minfs/utilities/imagecli"
	"github.com/dargueta/minfs/utilities/report"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func newApp() *cli.App {
	flags := append(
		imagecli.Flags(),
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Value:   string(report.FormatText),
			Usage:   "output format, text or csv",
			EnvVars: []string{"MINFS_FORMAT"},
		},
	)

	return &cli.App{
		Name:      "minls",
		Usage:     "List a file or directory in a MINIX file system image",
		ArgsUsage: "IMAGE [PATH]",
		Flags:     flags,
		Before:    imagecli.ConfigureLogging,
		Action:    listPath,
	}
}

func main() {
	err := newApp().Run(os.Args)
	if err != nil {
		logrus.Fatal(err)
	}
}

func listPath(ctx *cli.Context) error {
	if ctx.NArg() < 1 || ctx.NArg() > 2 {
		return errors.ErrInvalidArgument.WithMessage("usage: minls [options] IMAGE [PATH]")
	}

	format, err := report.ParseFormat(ctx.String("format"))
	if err != nil {
		return err
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

	var entries []minfs.DirectoryEntry
	if target.IsDir() {
		entries, err = session.FileSystem.ListDirectory(target)
		if err != nil {
			return err
		}
	}
	return report.WriteListing(ctx.App.Writer, target, entries, format)
}
