package aws

import (
	"bytes"
	"context"
	"fbs/src/lib"
	"log"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3UploadObject stores a generated document (ticket PDF, manifest) in the
// documents bucket.
func S3UploadObject(key string, body []byte, contentType string) error {
	client := lib.AWSGetS3Client()
	bucket := os.Getenv("S3_DOCUMENTS_BUCKET")
	_, err := client.PutObject(context.Background(), &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		log.Printf("[S3] Error uploading object %s: %s\n", key, err.Error())
		return err
	}
	return nil
}

// S3GetSignedURL produces a time-limited download link for a stored
// document.
func S3GetSignedURL(key string, expires time.Duration) (string, error) {
	client := lib.AWSGetS3Client()
	bucket := os.Getenv("S3_DOCUMENTS_BUCKET")
	presigner := s3.NewPresignClient(client)
	req, err := presigner.PresignGetObject(context.Background(), &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expires))
	if err != nil {
		log.Printf("[S3] Error presigning object %s: %s\n", key, err.Error())
		return "", err
	}
	return req.URL, nil
}
