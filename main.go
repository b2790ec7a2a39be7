package main

import (
	"flag"
	"trident/trident"
)

func main() {
	compare := flag.String("compare", "", "Train and compare the recurrent models described by a .yaml experiment file")
	validate := flag.String("validate", "", "Validate a price .csv file and render a close price chart")
	flag.Parse()
	if *compare != "" {
		trident.Compare(*compare)
	} else if *validate != "" {
		trident.ValidateData(*validate)
	} else {
		flag.Usage()
	}
}
