// Command main is a small CLI counterpart of the Party Finder web client:
// cached Discord login, profile gate before posting, listing and delete.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"partyfinder/internal/client"
	"partyfinder/internal/identity"
)

func main() {
	log.SetFlags(0)

	serverURL := os.Getenv("PARTYFINDER_URL")
	if serverURL == "" {
		serverURL = "http://localhost:5000"
	}

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cache, err := identity.NewCache()
	if err != nil {
		log.Fatalf("identity cache unavailable: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	api := client.New(serverURL)
	if id, ok := cache.Load(); ok {
		api.WithToken(id.Token)
	}

	switch os.Args[1] {
	case "login":
		runLogin(ctx, api, cache, os.Args[2:])
	case "logout":
		if err := cache.Clear(); err != nil {
			log.Fatalf("logout failed: %v", err)
		}
		fmt.Println("Logged out.")
	case "whoami":
		runWhoami(ctx, api, cache)
	case "posts":
		runPosts(ctx, api)
	case "my-posts":
		runMyPosts(ctx, api, cache)
	case "post":
		runPost(ctx, api, cache, os.Args[2:])
	case "delete":
		runDelete(ctx, api, cache, os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: lfgctl <command> [flags]

commands:
  login -code <code>     exchange a Discord authorization code and cache the identity
  logout                 forget the cached identity
  whoami                 show the cached identity with a fresh display name
  posts                  list all open listings
  my-posts               list your open listings
  post -game <g> -region <r> -mode <m> [-age <range>]
                         create a listing (requires a complete profile)
  delete -id <post id>   delete one of your listings

environment:
  PARTYFINDER_URL        API base URL (default http://localhost:5000)`)
}

func runLogin(ctx context.Context, api *client.Client, cache *identity.Cache, args []string) {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	code := fs.String("code", "", "Discord authorization code")
	_ = fs.Parse(args)
	if *code == "" {
		log.Fatal("login requires -code")
	}

	result, err := api.Login(ctx, *code)
	if err != nil {
		log.Fatalf("login failed: %v", err)
	}

	if err := cache.Set(identity.Identity{
		DiscordID:   result.User.DiscordID,
		DisplayName: result.User.Username,
		Email:       result.User.Email,
		Token:       result.Token,
	}); err != nil {
		log.Fatalf("could not cache identity: %v", err)
	}
	fmt.Printf("Logged in as %s (%s)\n", result.User.Username, result.User.DiscordID)
}

func requireLogin(cache *identity.Cache) *identity.Identity {
	id, ok := cache.Load()
	if !ok {
		log.Fatal("not logged in; run: lfgctl login -code <code>")
	}
	return id
}

func runWhoami(ctx context.Context, api *client.Client, cache *identity.Cache) {
	id := requireLogin(cache)

	// Display names live on the server; refresh on every start.
	if user, err := api.GetUser(ctx, id.DiscordID); err == nil && user.DisplayName != id.DisplayName {
		id.DisplayName = user.DisplayName
		_ = cache.Set(*id)
	}
	fmt.Printf("%s (%s) <%s>\n", id.DisplayName, id.DiscordID, id.Email)
}

func runPosts(ctx context.Context, api *client.Client) {
	posts, err := api.ListOpenPosts(ctx)
	if err != nil {
		log.Fatalf("could not list posts: %v", err)
	}
	if len(posts) == 0 {
		fmt.Println("No open listings.")
		return
	}
	for _, p := range posts {
		fmt.Printf("#%d  %-24s %-16s %-12s by %s\n",
			p.ID, p.GameType, p.GameMode, p.Region, p.PlayerName)
	}
}

func runMyPosts(ctx context.Context, api *client.Client, cache *identity.Cache) {
	id := requireLogin(cache)
	posts, err := api.ListMyPosts(ctx, id.DiscordID)
	if err != nil {
		log.Fatalf("could not list posts: %v", err)
	}
	if len(posts) == 0 {
		fmt.Println("You have no open listings.")
		return
	}
	for _, p := range posts {
		fmt.Printf("#%d  %-24s %-16s %-12s\n", p.ID, p.GameType, p.GameMode, p.Region)
	}
}

func runPost(ctx context.Context, api *client.Client, cache *identity.Cache, args []string) {
	fs := flag.NewFlagSet("post", flag.ExitOnError)
	game := fs.String("game", "", "Game title")
	region := fs.String("region", "", "Region")
	mode := fs.String("mode", "", "Game mode")
	age := fs.String("age", "", "Age preference for the announcement")
	_ = fs.Parse(args)

	id := requireLogin(cache)

	if err := api.EnsurePostable(ctx, id.DiscordID); err != nil {
		log.Fatalf("cannot post: %v (update your profile first)", err)
	}

	postID, err := api.CreatePost(ctx, client.CreatePostInput{
		GameType: *game,
		Region:   *region,
		GameMode: *mode,
		UserID:   id.DiscordID,
		AgeRange: *age,
	})
	if err != nil {
		log.Fatalf("could not create listing: %v", err)
	}
	fmt.Printf("Created listing #%d\n", postID)
}

func runDelete(ctx context.Context, api *client.Client, cache *identity.Cache, args []string) {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	postID := fs.Uint("id", 0, "Listing ID")
	_ = fs.Parse(args)
	if *postID == 0 {
		log.Fatal("delete requires -id")
	}

	id := requireLogin(cache)
	if err := api.DeletePost(ctx, uint(*postID), id.DiscordID); err != nil {
		log.Fatalf("could not delete listing: %v", err)
	}
	fmt.Printf("Deleted listing #%d\n", *postID)
}
