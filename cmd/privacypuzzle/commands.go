package main

import (
	"bytes"
	"errors"
	"fmt"
	"image/png"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"github.com/0xlayout/privacypuzzle/internal/config"
	"github.com/0xlayout/privacypuzzle/internal/failure"
	"github.com/0xlayout/privacypuzzle/internal/nonogram"
	"github.com/0xlayout/privacypuzzle/internal/puzzle"
	"github.com/0xlayout/privacypuzzle/internal/steg"
)

func runHide(args *hideArgs) error {
	opts := puzzle.HideOptions{Message: []byte(*args.message), Puzzle: config.Default()}
	opts.Puzzle.Size = *args.size
	opts.Puzzle.CellSize = *args.cellSize
	opts.Puzzle.Format = *args.format
	if err := opts.Puzzle.Validate(); err != nil {
		return err
	}

	password, err := resolvePassword(*args.password, true)
	if err != nil {
		return err
	}
	opts.Password = password

	fmt.Printf("Generating %dx%d nonogram puzzle...\n", opts.Puzzle.Size, opts.Puzzle.Size)
	fmt.Println("Encrypting message with AES-256-GCM and hiding it with LSB steganography...")
	res, err := puzzle.Hide(opts)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(*args.dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	ext, _ := steg.Extension(res.Format)
	outPath := filepath.Join(*args.dir, *args.output+ext)
	if err := os.WriteFile(outPath, res.Image, 0o644); err != nil {
		return fmt.Errorf("writing image: %w", err)
	}

	if *args.solution {
		solPath := filepath.Join(*args.dir, *args.output+"_solution.png")
		if err := writeSolution(solPath, res.Puzzle, opts.Puzzle.CellSize); err != nil {
			return err
		}
		fmt.Printf("Solution saved at: %s\n", solPath)
	}

	fmt.Println("\nPuzzle generated successfully!")
	fmt.Printf("File saved at: %s (%dx%d, %s hidden of %s available)\n", outPath, res.Width, res.Height,
		humanize.Bytes(uint64(res.Envelope)), humanize.Bytes(uint64(res.Capacity)))
	fmt.Println("\nShare this image. The recipient must solve the nonogram")
	fmt.Println(`and use the "reveal" command with the same password to retrieve the message.`)
	return nil
}

func writeSolution(path string, p *nonogram.Puzzle, cellSize int) error {
	img, err := nonogram.RenderSolution(p, cellSize)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return err
	}
	// os.WriteFile reports a failed close along with write errors.
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing solution: %w", err)
	}
	return nil
}

func runReveal(args *revealArgs) error {
	f, err := os.Open(*args.input)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("image file does not exist: %s", *args.input)
		}
		return err
	}
	defer f.Close()

	password, err := resolvePassword(*args.password, false)
	if err != nil {
		return err
	}

	fmt.Println("Extracting hidden data and decrypting with AES-256-GCM...")
	plain, err := puzzle.Reveal(f, password)
	if err != nil {
		if k := failure.Kind(err); k == failure.ErrAuthentication || k == failure.ErrFormat {
			return errors.New(failure.Public(err))
		}
		return err
	}

	fmt.Println("\nMessage retrieved successfully!")
	fmt.Println("\nConfidential message:")
	fmt.Printf("%q\n", string(plain))
	return nil
}

func runCapacity(args *capacityArgs) error {
	f, err := os.Open(*args.input)
	if err != nil {
		return err
	}
	defer f.Close()

	rep, err := puzzle.Capacity(f)
	if err != nil {
		return err
	}

	fmt.Printf("The image %q (%s, %dx%d) may hold a message of %s bytes (~ %s)\n",
		*args.input, rep.Format, rep.Width, rep.Height,
		humanize.Comma(int64(rep.Plaintext)), humanize.Bytes(uint64(rep.Plaintext)))
	if rep.Lossy {
		fmt.Println("Note: this format is lossy; output is always written as PNG or TIFF.")
	}
	return nil
}
