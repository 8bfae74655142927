package main

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"

	"investor-backend/internal/queue"
	"investor-backend/internal/scheduler"
)

type fakeSQS struct {
	deleted []string
}

func (f *fakeSQS) ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error) {
	return &sqs.ReceiveMessageOutput{}, nil
}

func (f *fakeSQS) DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error) {
	f.deleted = append(f.deleted, aws.ToString(params.ReceiptHandle))
	return &sqs.DeleteMessageOutput{}, nil
}

func countingHandler(err error) (scheduler.Handler, *[]scheduler.Task) {
	var seen []scheduler.Task
	return func(ctx context.Context, task scheduler.Task) error {
		seen = append(seen, task)
		return err
	}, &seen
}

func message(t *testing.T, id, receipt string, msg queue.Message) sqstypes.Message {
	t.Helper()
	body, err := queue.EncodeMessage(msg)
	if err != nil {
		t.Fatalf("EncodeMessage: %v", err)
	}
	return sqstypes.Message{
		MessageId:     aws.String(id),
		ReceiptHandle: aws.String(receipt),
		Body:          aws.String(string(body)),
		Attributes:    map[string]string{"ApproximateReceiveCount": "1"},
	}
}

func TestWorkerDeletesMessageOnSuccess(t *testing.T) {
	client := &fakeSQS{}
	handler, seen := countingHandler(nil)
	msg := message(t, "m1", "r1", queue.Message{DocumentID: "doc-1", StorageLocator: "s3://deal-docs/documents/a_memo.txt", FileName: "memo.txt", RequestID: "req-1"})

	handleMessage(context.Background(), client, "queue", handler, msg)

	if len(*seen) != 1 || (*seen)[0].DocumentID != "doc-1" {
		t.Fatalf("expected one extraction for doc-1, got %+v", *seen)
	}
	if len(client.deleted) != 1 || client.deleted[0] != "r1" {
		t.Fatalf("expected delete of r1, got %v", client.deleted)
	}
}

func TestWorkerDeletesOnFailureWithoutRetry(t *testing.T) {
	client := &fakeSQS{}
	handler, seen := countingHandler(errors.New("fetch failed"))
	msg := message(t, "m2", "r2", queue.Message{DocumentID: "doc-2", StorageLocator: "s3://deal-docs/documents/b_memo.txt", RequestID: "req-2"})

	handleMessage(context.Background(), client, "queue", handler, msg)

	if len(*seen) != 1 {
		t.Fatalf("expected exactly one attempt, got %d", len(*seen))
	}
	if len(client.deleted) != 1 {
		t.Fatalf("expected delete after failed attempt, got %d", len(client.deleted))
	}
}

func TestWorkerDropsInvalidMessages(t *testing.T) {
	for _, body := range []string{"{bad-json", "   ", `{"documentId":"doc-3"}`} {
		client := &fakeSQS{}
		handler, seen := countingHandler(nil)
		msg := sqstypes.Message{
			MessageId:     aws.String("m3"),
			ReceiptHandle: aws.String("r3"),
			Body:          aws.String(body),
		}

		handleMessage(context.Background(), client, "queue", handler, msg)

		if len(*seen) != 0 {
			t.Fatalf("%q: handler must not run for invalid messages", body)
		}
		if len(client.deleted) != 1 {
			t.Fatalf("%q: expected delete, got %d", body, len(client.deleted))
		}
	}
}

func TestWorkerMissingReceiptHandle(t *testing.T) {
	client := &fakeSQS{}
	handler, _ := countingHandler(nil)
	msg := message(t, "m4", "", queue.Message{DocumentID: "doc-4", StorageLocator: "s3://b/k"})

	handleMessage(context.Background(), client, "queue", handler, msg)

	if len(client.deleted) != 0 {
		t.Fatalf("expected no delete without receipt handle, got %v", client.deleted)
	}
}
