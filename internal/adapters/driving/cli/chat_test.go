package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatLoop_AnswersUntilExit(t *testing.T) {
	answers := &mockAnswerService{}
	out := new(bytes.Buffer)

	err := chatLoop(context.Background(), strings.NewReader("What is bread?\nexit\nnever asked\n"), out, answers, 4)
	require.NoError(t, err)

	assert.Equal(t, []string{"What is bread?"}, answers.questions)
	assert.Equal(t, []int{4}, answers.ks)
	assert.Contains(t, out.String(), chatBanner)
	assert.Contains(t, out.String(), outputHeading)
	assert.Contains(t, out.String(), "Answer to: What is bread?")
	assert.Contains(t, out.String(), "Total Elapsed Time: ")
	assert.Contains(t, out.String(), chatGoodbye)
}

func TestChatLoop_ExitIsCaseInsensitive(t *testing.T) {
	for _, word := range []string{"EXIT", "Quit", "  quit  "} {
		t.Run(word, func(t *testing.T) {
			answers := &mockAnswerService{}
			out := new(bytes.Buffer)

			err := chatLoop(context.Background(), strings.NewReader(word+"\n"), out, answers, 0)
			require.NoError(t, err)
			assert.Empty(t, answers.questions)
			assert.Contains(t, out.String(), chatGoodbye)
		})
	}
}

func TestChatLoop_EmptyInputReprompts(t *testing.T) {
	answers := &mockAnswerService{}
	out := new(bytes.Buffer)

	err := chatLoop(context.Background(), strings.NewReader("\n   \nquit\n"), out, answers, 0)
	require.NoError(t, err)

	assert.Empty(t, answers.questions)
	assert.Equal(t, 3, strings.Count(out.String(), chatPrompt))
	assert.NotContains(t, out.String(), "Total Elapsed Time")
}

func TestChatLoop_EOFEndsSession(t *testing.T) {
	answers := &mockAnswerService{}
	out := new(bytes.Buffer)

	err := chatLoop(context.Background(), strings.NewReader("first question"), out, answers, 0)
	require.NoError(t, err)

	assert.Equal(t, []string{"first question"}, answers.questions)
	assert.NotContains(t, out.String(), chatGoodbye)
}

func TestChatLoop_ErrorKeepsSessionAlive(t *testing.T) {
	answers := &mockAnswerService{err: errMock}
	out := new(bytes.Buffer)

	err := chatLoop(context.Background(), strings.NewReader("one\ntwo\nexit\n"), out, answers, 0)
	require.NoError(t, err)

	assert.Equal(t, []string{"one", "two"}, answers.questions)
	assert.Equal(t, 2, strings.Count(out.String(), "An error occurred during processing: mock failure"))
	assert.NotContains(t, out.String(), outputHeading)
}

func TestChatLoop_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// A reader that never returns keeps the scanner blocked.
	pr, pw := newBlockingPipe()
	defer pw.Close()

	err := chatLoop(ctx, pr, new(bytes.Buffer), &mockAnswerService{}, 0)
	assert.NoError(t, err)
}

func TestChatCmd_Executes(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute([]string{"chat", "-n", "2"}, "Which planet is largest?\nquit\n")
	require.NoError(t, err)

	assert.Contains(t, out, "Answer to: Which planet is largest?")
	assert.Equal(t, []int{2}, testSvc.answer.ks)
	assert.ElementsMatch(t, []string{"Cooking", "Astronomy"}, testSvc.collections.Cached())
}

func TestChatCmd_RejectsArgs(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := execute([]string{"chat", "extra"}, "")
	assert.Error(t, err)
}
