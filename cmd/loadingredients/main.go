package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/platefeed/platefeed/data"
	"github.com/platefeed/platefeed/internal/config"
	"github.com/platefeed/platefeed/internal/database"
	"github.com/platefeed/platefeed/internal/services"
)

func main() {
	var showHelp bool
	flag.BoolVar(&showHelp, "h", false, "show help")
	var envFilename string
	flag.StringVar(&envFilename, "f", "", "path to the .env file")
	var csvFilename string
	flag.StringVar(&csvFilename, "i", "", "path to the ingredients csv file")
	flag.Parse()

	usage := `
Load the ingredient reference table from a two-column (name, unit) csv file.
Without -i the embedded ingredient catalog is loaded.

Usage:

loadingredients [-h] [-f ENV_FILE_PATH] [-i CSV_FILE_PATH]

ENV_FILE_PATH: path to the .env file
CSV_FILE_PATH: path to the ingredients csv file

example
  loadingredients -f /path/to/something/.env -i /path/to/ingredients.csv
`
	// if -h flag print usage and return
	if showHelp {
		fmt.Println(usage)
		return
	}

	if envFilename != "" {
		log.Printf("Loading environment variables from %s\n", envFilename)
		if err := godotenv.Load(envFilename); err != nil {
			log.Fatalf("Failed to load environment variables: %v\n", err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	var source io.Reader = strings.NewReader(data.IngredientsCSV)
	sourceName := "embedded catalog"
	if csvFilename != "" {
		file, err := os.Open(csvFilename)
		if err != nil {
			log.Fatalf("Failed to open %s: %v", csvFilename, err)
		}
		defer file.Close()
		source = file
		sourceName = csvFilename
	}

	count, err := services.LoadIngredientsCSV(db, source)
	if err != nil {
		log.Fatalf("Failed to load ingredients from %s: %v", sourceName, err)
	}
	log.Printf("Loaded %d ingredients from %s", count, sourceName)
}
