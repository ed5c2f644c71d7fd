// Package file provides HTTP handlers for file-related operations.
package file

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"genai-hiring-backend/internal/database"
	"genai-hiring-backend/internal/model"
	"genai-hiring-backend/internal/utilities"
)

// FileController handles file related endpoints
type FileController struct {
	DB      *database.DBinstanceStruct
	Storage StorageClient
}

// ResumeObjectPrefix groups resume uploads inside the bucket.
const ResumeObjectPrefix = "resumes"

// NewFileController creates a new instance of FileController
func NewFileController(db *database.DBinstanceStruct, storage StorageClient) *FileController {
	return &FileController{
		DB:      db,
		Storage: storage,
	}
}

// PersistFileData fills a File record from raw bytes, offloading the content
// to the object store when one is configured and keeping it inline otherwise.
func PersistFileData(storage StorageClient, file *model.File, fileBytes []byte, extension, prefix string) error {
	file.Extension = extension
	if storage == nil {
		file.Content = fileBytes
		file.StorageObjectName = nil
		return nil
	}

	objectName := fmt.Sprintf("%s/%s%s", prefix, uuid.NewString(), extension)
	if err := storage.UploadFile(objectName, bytes.NewReader(fileBytes)); err != nil {
		return err
	}

	file.StorageObjectName = &objectName
	file.Content = nil
	return nil
}

// GetFile function retrieves a file from the database and sends it as a downloadable attachment in
// the response.
// @Summary Retrieve downloadable attachment
// @Tags File
// @Produce octet-stream
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path string true "ID of wanted file"
// @Success 200 {string} binary "Successfully retrieve file"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 404 {object} utilities.ErrorResponse "Given file id not found"
// @Failure 500 {object} utilities.ErrorResponse "Fail to send file content"
// @Router /files/{id} [get]
func (fc *FileController) GetFile(c *gin.Context) {
	var file model.File
	id := c.Param("id")

	if err := fc.DB.First(&file, id).Error; err != nil {
		c.String(http.StatusNotFound, "File not found")
		return
	}

	fc.writeFileResponse(c, &file)
}

func (fc *FileController) writeFileResponse(c *gin.Context, file *model.File) {
	c.Writer.Header().Set("Content-Disposition", "attachment; filename="+fmt.Sprint(file.ID)+file.Extension)
	c.Writer.Header().Set("Content-Type", "application/octet-stream")

	if file.StorageObjectName != nil {
		if fc.Storage == nil {
			c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
				Error: "Cloud storage is disabled while the requested file is stored remotely",
			})
			return
		}
		reader, size, err := fc.Storage.DownloadFile(*file.StorageObjectName)
		if err != nil {
			c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
				Error: fmt.Sprintf("Failed to download file from storage: %s", err.Error()),
			})
			return
		}
		defer func() {
			if err := reader.Close(); err != nil {
				log.Printf("failed to close storage reader: %v", err)
			}
		}()

		if size > 0 {
			c.Writer.Header().Set("Content-Length", fmt.Sprint(size))
		}
		if _, err := io.Copy(c.Writer, reader); err != nil {
			fc.handleWriterError(c, err)
		}
		return
	}

	c.Writer.Header().Set("Content-Length", fmt.Sprint(len(file.Content)))
	if _, err := c.Writer.Write(file.Content); err != nil {
		fc.handleWriterError(c, err)
	}
}

func (fc *FileController) handleWriterError(c *gin.Context, err error) {
	if !c.Writer.Written() {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: "Failed to send file content",
		})
	} else {
		c.Abort()
	}
}
