package queue

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

func TestMessageRoundTrip(t *testing.T) {
	msg := Message{
		DocumentID:     "doc-123",
		StorageLocator: "s3://deal-docs/documents/abc_deck.pdf",
		FileName:       "deck.pdf",
		RequestID:      "request-456",
		EnqueuedAt:     "2026-01-30T22:00:00Z",
		Version:        MessageVersion,
	}

	payload, err := EncodeMessage(msg)
	if err != nil {
		t.Fatalf("encode message: %v", err)
	}

	got, err := DecodeMessage(payload)
	if err != nil {
		t.Fatalf("decode message: %v", err)
	}

	if !reflect.DeepEqual(got, msg) {
		t.Fatalf("round trip mismatch: got %+v want %+v", got, msg)
	}
}

type fakeSender struct {
	inputs []*sqs.SendMessageInput
}

func (f *fakeSender) SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	f.inputs = append(f.inputs, params)
	return &sqs.SendMessageOutput{MessageId: aws.String("m-1")}, nil
}

func TestSQSClientSendsEncodedBody(t *testing.T) {
	sender := &fakeSender{}
	client := NewSQSClientWithAPI(sender, "https://sqs.local/queue")

	if err := client.Send(context.Background(), Message{DocumentID: "doc-1", Version: MessageVersion}); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if len(sender.inputs) != 1 {
		t.Fatalf("expected one send, got %d", len(sender.inputs))
	}
	in := sender.inputs[0]
	if aws.ToString(in.QueueUrl) != "https://sqs.local/queue" {
		t.Fatalf("unexpected queue url %q", aws.ToString(in.QueueUrl))
	}
	if !strings.Contains(aws.ToString(in.MessageBody), `"documentId":"doc-1"`) {
		t.Fatalf("unexpected body %s", aws.ToString(in.MessageBody))
	}
}

func TestNewSQSClientRequiresQueueURL(t *testing.T) {
	if _, err := NewSQSClient(context.Background(), SQSOptions{Region: "us-east-1"}); err == nil {
		t.Fatal("expected error without queue url")
	}
}
