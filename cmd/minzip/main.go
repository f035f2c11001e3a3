package main

import (
	"fmt"
	"io"
	"os"

	"github.com/dargueta/minfs/errors"
	"github.com/dargueta/minfs/utilities/compression"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

type codec func(input io.Reader, output io.Writer) (int64, error)

func newApp() *cli.App {
	return &cli.App{
		Name:  "minzip",
		Usage: "Compress or expand disk images using RLE8 and gzip",
		Commands: []*cli.Command{
			{
				Name:      "compress",
				Usage:     "Compress a raw image",
				ArgsUsage: "INPUT_FILE OUTPUT_FILE",
				Action: func(ctx *cli.Context) error {
					return convertFile(ctx, compression.CompressImage, "Compressed")
				},
			},
			{
				Name:      "decompress",
				Usage:     "Expand a compressed image",
				ArgsUsage: "INPUT_FILE OUTPUT_FILE",
				Action: func(ctx *cli.Context) error {
					return convertFile(ctx, compression.DecompressImage, "Expanded")
				},
			},
		},
	}
}

func main() {
	err := newApp().Run(os.Args)
	if err != nil {
		logrus.Fatal(err)
	}
}

func convertFile(ctx *cli.Context, convert codec, verb string) error {
	if ctx.NArg() != 2 {
		return errors.ErrInvalidArgument.WithMessage(
			fmt.Sprintf("usage: minzip %s INPUT_FILE OUTPUT_FILE", ctx.Command.Name))
	}
	sourceFilePath := ctx.Args().Get(0)
	outputFilePath := ctx.Args().Get(1)

	sourceFile, err := os.Open(sourceFilePath)
	if err != nil {
		return errors.ErrIOFailed.Wrap(err).WithMessage(
			fmt.Sprintf("failed to open file for reading: `%v`", sourceFilePath))
	}
	defer sourceFile.Close()

	outFile, err := os.Create(outputFilePath)
	if err != nil {
		return errors.ErrIOFailed.Wrap(err).WithMessage(
			fmt.Sprintf("failed to open file for writing: `%v`", outputFilePath))
	}

	nWritten, err := convert(sourceFile, outFile)
	if err != nil {
		outFile.Close()
		return errors.ErrIOFailed.Wrap(err).WithMessage(
			fmt.Sprintf("error converting `%v`", sourceFilePath))
	}
	err = outFile.Close()
	if err != nil {
		return errors.ErrIOFailed.Wrap(err)
	}

	fmt.Fprintf(ctx.App.Writer, "%s %s (%d bytes of image data).\n", verb, sourceFilePath, nWritten)
	return nil
}
