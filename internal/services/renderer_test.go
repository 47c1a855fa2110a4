package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/juliusmarkwei/swift-send/internal/models"
)

func TestRender(t *testing.T) {
	contact := &models.Contact{
		FullName: "Ama",
		Email:    "ama@example.com",
		Phone:    "+233111",
		Info:     "VIP",
	}

	tests := []struct {
		name    string
		body    string
		contact *models.Contact
		want    string
	}{
		{
			name:    "Single token",
			body:    "Hello <full_name>, your order shipped.",
			contact: contact,
			want:    "Hello Ama, your order shipped.",
		},
		{
			name:    "Repeated token replaced everywhere",
			body:    "Hi <full_name>, <full_name>!",
			contact: contact,
			want:    "Hi Ama, Ama!",
		},
		{
			name:    "All tokens",
			body:    "<full_name> <email> <phone> <info>",
			contact: contact,
			want:    "Ama ama@example.com +233111 VIP",
		},
		{
			name:    "Empty attribute becomes empty string",
			body:    "Name: <full_name>.",
			contact: &models.Contact{Phone: "+233111"},
			want:    "Name: .",
		},
		{
			name:    "Unrecognized token left untouched",
			body:    "Hi <nickname>",
			contact: contact,
			want:    "Hi <nickname>",
		},
		{
			name:    "No tokens",
			body:    "Plain message",
			contact: contact,
			want:    "Plain message",
		},
		{
			name:    "Nil contact returns body unchanged",
			body:    "Hi <full_name>",
			contact: nil,
			want:    "Hi <full_name>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Render(tt.body, tt.contact))
		})
	}
}
