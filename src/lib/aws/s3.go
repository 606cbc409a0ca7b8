package aws

import (
	"context"
	"hrc/src/lib"
	"log"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

func assetsBucket() string {
	return os.Getenv("S3_ASSETS_BUCKET")
}

// S3Enabled reports whether assets should go to S3 rather than local disk.
func S3Enabled() bool {
	return assetsBucket() != ""
}

func S3UploadAsset(name string, f string, contentType string) error {
	bucket := assetsBucket()
	file, err := os.Open(f)
	if err != nil {
		log.Printf("Could not open file to upload: %s\n", err.Error())
		return err
	}
	defer file.Close()
	client := lib.AWSGetS3Client()
	if client == nil {
		return lib.ErrAWSUnavailable
	}
	_, err = client.PutObject(context.Background(), &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(name),
		Body:        file,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		log.Printf("Could not put object to S3 bucket: %s\n", err.Error())
		return err
	}
	err = s3.NewObjectExistsWaiter(client).Wait(context.Background(), &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(name),
	}, time.Minute)
	if err != nil {
		log.Printf("Failed attempt to wait for object %s to exist: %s\n", name, err.Error())
		return err
	}
	log.Printf("Added object '%s' to bucket '%s'", name, bucket)
	return nil
}

func S3PresignAsset(name string, expires time.Duration) (*string, error) {
	client := lib.AWSGetS3Client()
	if client == nil {
		return nil, lib.ErrAWSUnavailable
	}
	pre := s3.NewPresignClient(client)
	r, err := pre.PresignGetObject(context.TODO(), &s3.GetObjectInput{
		Bucket: aws.String(assetsBucket()),
		Key:    aws.String(name),
	}, func(po *s3.PresignOptions) {
		po.Expires = expires
	})
	if err != nil {
		log.Printf("Could not generate presigned URL for object [%s]: %s\n", name, err.Error())
		return nil, err
	}
	return &r.URL, nil
}
