package main

import "restaurant_site/cmd/restaurantctl/commands"

func main() {
	commands.Execute()
}
