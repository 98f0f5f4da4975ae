package main

import "github.com/frahmantamala/wishlist-management/cmd"

func main() {
	cmd.Execute()
}
