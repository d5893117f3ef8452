// Command token prints an access token accepted by the media server.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/gophmedia/internal/server/auth"
)

func main() {
	secret := flag.String("s", "secretKey", "server JWT secret key")
	userID := flag.String("u", "", "user id to put into the token")
	validity := flag.Duration("t", 24*time.Hour, "token validity")
	flag.Parse()

	if *userID == "" {
		fmt.Fprintln(os.Stderr, "user id is required (-u)")
		os.Exit(2)
	}

	tok, err := auth.GenerateToken(*userID, []byte(*secret), *validity)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fmt.Println(tok)
}
