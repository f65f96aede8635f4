// Package slcup is a CLI utility that upgrades replay files to the
// delta-encoded container version.
package main

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"slc"
	"strings"
)

const usage = `upgrade version 2 replay files to version 3
example: slcup ./replays`

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	args := os.Args
	if len(args) != 2 {
		fmt.Println(usage)
		return nil
	}

	var replays []string

	path := args[1]

	walkFunc := func(path string, info fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("%v %w", path, err)
		}
		if info.IsDir() || len(path) < 4 {
			return nil
		}
		if path[len(path)-4:] != ".slc" {
			return nil
		}
		if strings.HasSuffix(path, ".v3.slc") {
			return nil
		}

		replay := path[:len(path)-4]

		_, err = os.Stat(replay + ".v3.slc")
		if !errors.Is(err, os.ErrNotExist) {
			return nil
		}

		version, err := detectVersion(path)
		if err != nil {
			return fmt.Errorf("%v %w", path, err)
		}
		if version != slc.V2 {
			return nil
		}

		replays = append(replays, replay)
		return nil
	}
	err := filepath.WalkDir(path, walkFunc)
	if err != nil {
		return err
	}

	nReplays := len(replays)
	fmt.Printf("Found %v version 2 replays.\n", nReplays)

	chResults := make(chan result, nReplays)
	for _, replay := range replays {
		go func(replay string) {
			chResults <- result{
				replay: replay,
				err:    upgrade(replay),
			}
		}(replay)
	}

	for i := 1; i <= nReplays; i++ {
		result := <-chResults
		fmt.Printf("[%v/%v]", i, nReplays)
		if result.err != nil {
			fmt.Printf("[ERR] %v %v\n", result.replay, result.err)
			continue
		}
		fmt.Printf("[OK] %v\n", result.replay+".v3.slc")
	}
	return nil
}

type result struct {
	replay string
	err    error
}

func detectVersion(path string) (slc.Version, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	return slc.DetectVersion(file)
}

func upgrade(replay string) error {
	file, err := os.Open(replay + ".slc")
	if err != nil {
		return fmt.Errorf("open replay: %w", err)
	}
	defer file.Close()

	decoded, err := slc.Read(bufio.NewReader(file), &slc.RawMeta{})
	if err != nil {
		return fmt.Errorf("decode replay: %w", err)
	}

	out, err := os.OpenFile(replay+".v3.slc", os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open file: %w", err)
	}
	defer out.Close()

	if err := decoded.WriteV3(out); err != nil {
		return fmt.Errorf("write v3: %w", err)
	}
	return nil
}
