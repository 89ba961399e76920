package main

import (
	"fmt"
	"os"

	"github.com/akamensky/argparse"

	"github.com/0xlayout/privacypuzzle/internal/config"
	"github.com/0xlayout/privacypuzzle/internal/education"
)

const Version = "1.0.0"

type hideArgs struct {
	message  *string
	password *string
	size     *int
	cellSize *int
	output   *string
	dir      *string
	format   *string
	solution *bool
}

type revealArgs struct {
	input    *string
	password *string
}

type capacityArgs struct {
	input *string
}

func main() {
	if err := run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "\nError: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	parser := argparse.NewParser("privacypuzzle",
		"Educational tool for encryption and steganography integrated in digital puzzles")

	hideCmd, hide := initHideCommand(parser)
	revealCmd, reveal := initRevealCommand(parser)
	capacityCmd, capacity := initCapacityCommand(parser)
	educateCmd := parser.NewCommand("educate", "Display educational content on privacy, cryptography and steganography")
	versionCmd := parser.NewCommand("version", "Show version information")

	if len(args) < 2 {
		fmt.Println(education.Introduction())
		fmt.Println()
		fmt.Print(parser.Usage(nil))
		printExamples()
		return nil
	}

	if err := parser.Parse(args); err != nil {
		fmt.Fprint(os.Stderr, parser.Usage(err))
		return fmt.Errorf("invalid arguments")
	}

	switch {
	case hideCmd.Happened():
		return runHide(hide)
	case revealCmd.Happened():
		return runReveal(reveal)
	case capacityCmd.Happened():
		return runCapacity(capacity)
	case educateCmd.Happened():
		fmt.Println(education.Full())
		return nil
	case versionCmd.Happened():
		fmt.Printf("privacypuzzle version %s\n", Version)
		return nil
	}
	return nil
}

func initHideCommand(parser *argparse.Parser) (*argparse.Command, *hideArgs) {
	cmd := parser.NewCommand("hide", "Hide a confidential message in a nonogram puzzle")
	return cmd, &hideArgs{
		message:  cmd.String("m", "message", &argparse.Options{Required: true, Help: "Message to hide"}),
		password: cmd.String("p", "password", &argparse.Options{Help: "Password for AES-256-GCM encryption (else $" + config.PasswordEnv + " or prompt)"}),
		size:     cmd.Int("s", "size", &argparse.Options{Default: config.DefaultSize, Help: fmt.Sprintf("Grid size, %d to %d", config.MinSize, config.MaxSize)}),
		cellSize: cmd.Int("c", "cell-size", &argparse.Options{Default: config.DefaultCellSize, Help: "Cell size in pixels"}),
		output:   cmd.String("o", "output", &argparse.Options{Default: config.DefaultOutput, Help: "Output filename without extension"}),
		dir:      cmd.String("d", "dir", &argparse.Options{Default: config.DefaultDir, Help: "Output directory"}),
		format:   cmd.Selector("f", "format", []string{"png", "tiff"}, &argparse.Options{Default: config.DefaultFormat, Help: "Output image format"}),
		solution: cmd.Flag("S", "solution", &argparse.Options{Help: "Also write the solved grid as <output>_solution.png"}),
	}
}

func initRevealCommand(parser *argparse.Parser) (*argparse.Command, *revealArgs) {
	cmd := parser.NewCommand("reveal", "Extract and decrypt a hidden message from a puzzle image")
	return cmd, &revealArgs{
		input:    cmd.String("i", "input", &argparse.Options{Required: true, Help: "Path to the image with hidden data"}),
		password: cmd.String("p", "password", &argparse.Options{Help: "Password used for encryption (else $" + config.PasswordEnv + " or prompt)"}),
	}
}

func initCapacityCommand(parser *argparse.Parser) (*argparse.Command, *capacityArgs) {
	cmd := parser.NewCommand("capacity", "Report how much data an image can hide")
	return cmd, &capacityArgs{
		input: cmd.String("i", "input", &argparse.Options{Required: true, Help: "Path to the image"}),
	}
}

func printExamples() {
	fmt.Println("\nUsage examples:")
	fmt.Println(`  privacypuzzle hide -m "Sensitive info" -p "StrongPassword123!"`)
	fmt.Println(`  privacypuzzle reveal -i output/puzzle.png -p "StrongPassword123!"`)
	fmt.Println("  privacypuzzle capacity -i output/puzzle.png")
	fmt.Println("  privacypuzzle educate")
}
