package main

import (
	"cmp"
	"flag"
	"fmt"
	"log/slog"
	"os"

	gojson "github.com/goccy/go-json"

	fixedindex "github.com/meavi1994/go-fixed-index"
)

type User struct {
	Name string `json:"name"`
	Age  int    `json:"age"`
}

func (u *User) String() string {
	return fmt.Sprintf("%s (%d)", u.Name, u.Age)
}

func main() {
	debug := flag.Bool("debug", false, "log every repo mutation")
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if err := run(logger); err != nil {
		logger.Error("demo failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	userRepo := fixedindex.NewRepo[*User](fixedindex.WithLogger(logger))
	byName := fixedindex.NewUniqueIndex(func(u *User) string { return u.Name }, cmp.Less[string])
	if err := userRepo.AddIndex("by_name", byName); err != nil {
		return err
	}
	userRepo.AddSubscriber(func(ev fixedindex.Event[*User]) {
		logger.Info("event", "type", ev.Type, "index", ev.Index)
	})

	// Append
	for _, u := range []*User{{"alice", 30}, {"bob", 25}, {"carol", 41}} {
		id, err := userRepo.Append(u)
		if err != nil {
			return err
		}
		fmt.Println("appended", u.Name, "at", id)
	}

	// Duplicate names are rejected without burning an index
	if _, err := userRepo.Append(&User{"alice", 99}); err != nil {
		fmt.Println("rejected:", err)
	}

	// Remove leaves a hole; the next append does not fill it
	userRepo.Remove(1)
	id, err := userRepo.Append(&User{"dave", 19})
	if err != nil {
		return err
	}
	fmt.Println("appended dave at", id, "next", userRepo.Next())

	if hs := byName.Find("carol"); len(hs) == 1 {
		fmt.Println("carol is at", hs[0], "->", userRepo.At(hs[0]))
	}

	fmt.Print(userRepo)

	b, err := gojson.Marshal(userRepo.Snapshot())
	if err != nil {
		return err
	}
	fmt.Println(string(b))
	return nil
}
