package server

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	// Load env file into environments.
	_ "github.com/joho/godotenv/autoload"

	"genai-hiring-backend/internal/controller/file"
	"genai-hiring-backend/internal/database"
)

// MyServer holds the shared dependencies every route handler needs.
type MyServer struct {
	DB      *database.DBinstanceStruct
	Storage file.StorageClient
}

// NewServer constructs the http.Server with the database connected and
// cloud storage attached when STORAGE_BUCKET_NAME is set.
func NewServer() *http.Server {
	port, _ := strconv.Atoi(os.Getenv("PORT"))
	if port == 0 {
		port = 8080
	}

	db, err := database.GetMainDB()
	if err != nil {
		log.Fatalf("Database failed to initialize: %s", err)
	}

	s := &MyServer{DB: db}

	if bucket := os.Getenv("STORAGE_BUCKET_NAME"); bucket != "" {
		storage, err := file.NewCloudStorageClient(bucket)
		if err != nil {
			log.Fatalf("Cloud storage failed to initialize: %s", err)
		}
		s.Storage = storage
	} else {
		log.Println("STORAGE_BUCKET_NAME not set, uploads are kept in the database")
	}

	return &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}
