package chat

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func conversationWith(n int) *Conversation {
	conv := &Conversation{ID: uuid.New()}
	for i := 0; i < n; i++ {
		role := RoleUser
		if i%2 == 1 {
			role = RoleAssistant
		}
		conv.Messages = append(conv.Messages, Message{
			Seq: i + 1, Role: role, Content: fmt.Sprintf("msg %d", i+1),
		})
	}
	return conv
}

func TestConversationHistory(t *testing.T) {
	t.Run("shorter than window returns all", func(t *testing.T) {
		entries := conversationWith(4).History(6)
		require.Len(t, entries, 4)
		assert.Equal(t, "msg 1", entries[0].Content)
		assert.Equal(t, "user", entries[0].Role)
		assert.Equal(t, "assistant", entries[1].Role)
	})

	t.Run("longer than window keeps most recent", func(t *testing.T) {
		entries := conversationWith(10).History(6)
		require.Len(t, entries, 6)
		assert.Equal(t, "msg 5", entries[0].Content)
		assert.Equal(t, "msg 10", entries[5].Content)
	})

	t.Run("empty conversation", func(t *testing.T) {
		assert.Empty(t, conversationWith(0).History(6))
	})

	t.Run("zero window disables the cap", func(t *testing.T) {
		assert.Len(t, conversationWith(10).History(0), 10)
	})
}

func TestConversationNextSeq(t *testing.T) {
	assert.Equal(t, 1, conversationWith(0).NextSeq())
	assert.Equal(t, 5, conversationWith(4).NextSeq())
}
