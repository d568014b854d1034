package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"path"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

var (
	storageClient *storage.Client
	bucketName    string
)

// InitGCPStorage initializes the GCP Storage client for the invoice archive
func InitGCPStorage(ctx context.Context, bucket, credentialsFile string) error {
	if bucket == "" {
		return fmt.Errorf("GCP_BUCKET_NAME not set")
	}

	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return fmt.Errorf("failed to create GCP storage client: %v", err)
	}

	storageClient = client
	bucketName = bucket
	return nil
}

// StorageReady reports whether invoices can be archived
func StorageReady() bool {
	return storageClient != nil
}

// InvoiceObjectName places an invoice under its operator's prefix with a
// random suffix so re-archiving never overwrites an earlier copy
func InvoiceObjectName(operatorID, invoiceNumber string) string {
	randomBytes := make([]byte, 8)
	rand.Read(randomBytes)
	name := strings.ReplaceAll(invoiceNumber, "/", "-")
	return path.Join("invoices", operatorID, name+"-"+hex.EncodeToString(randomBytes)+".html")
}

// UploadInvoice stores a rendered invoice page and returns its public URL
func UploadInvoice(ctx context.Context, objectName string, page []byte) (string, error) {
	if storageClient == nil {
		return "", fmt.Errorf("GCP storage client not initialized")
	}

	writer := storageClient.Bucket(bucketName).Object(objectName).NewWriter(ctx)
	writer.ContentType = "text/html; charset=utf-8"

	if _, err := writer.Write(page); err != nil {
		writer.Close()
		return "", fmt.Errorf("GCS upload failed: %v", err)
	}

	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("GCS upload finalization failed: %v", err)
	}

	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucketName, objectName), nil
}

// CloseGCPStorage releases the client
func CloseGCPStorage() error {
	if storageClient == nil {
		return nil
	}
	return storageClient.Close()
}
