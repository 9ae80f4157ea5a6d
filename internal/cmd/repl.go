package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mindmate-ai/mindmate/internal/logic/pipeline"
	"github.com/mindmate-ai/mindmate/internal/service"
)

const replBanner = `
MindMate - a supportive companion for difficult moments.
Type a message to start, or /help for commands.
Note: MindMate is not a substitute for professional care.
If you're in crisis, call or text 988 (Suicide & Crisis Lifeline).
`

const replHelp = `Commands:
  /help     show this help
  /new      start a new conversation
  /history  show the current conversation
  /clear    clear the current conversation
  /save     export the conversation to a JSON file
  /stats    show engine statistics
  /about    about MindMate
  /exit     quit`

const replAbout = `MindMate is a retrieval-augmented support companion. It grounds its
responses in a curated mental health knowledge base and keeps the
conversation context across turns. It does not diagnose or replace
professional treatment.`

// runREPL 运行交互式命令行会话，直到 /exit 或输入流关闭
func runREPL(ctx context.Context) error {
	engine, err := service.GetEngine()
	if err != nil {
		return err
	}

	fmt.Printf("%s\n", replBanner)

	sess, _ := engine.Sessions().GetOrCreate("")
	sessionID := sess.ID
	fmt.Printf("Session %s started.\n\n", shortID(sessionID))

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		fmt.Print("you> ")
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())

		if strings.HasPrefix(line, "/") {
			switch strings.ToLower(line) {
			case "/help":
				fmt.Println(replHelp)
			case "/about":
				fmt.Println(replAbout)
			case "/exit", "/quit":
				fmt.Println("Take care of yourself. Goodbye.")
				return nil
			case "/new":
				sess, _ := engine.Sessions().GetOrCreate("")
				sessionID = sess.ID
				fmt.Printf("Started new session %s.\n", shortID(sessionID))
			case "/clear":
				if err := engine.DeleteSession(sessionID); err == nil {
					sess, _ := engine.Sessions().GetOrCreate("")
					sessionID = sess.ID
				}
				fmt.Println("Conversation cleared.")
			case "/history":
				printHistory(engine, sessionID)
			case "/save":
				location, err := engine.ExportSession(ctx, sessionID)
				if err != nil {
					fmt.Printf("Export failed: %v\n", err)
				} else {
					fmt.Printf("Conversation saved to %s\n", location)
				}
			case "/stats":
				printStats(ctx, engine)
			default:
				fmt.Printf("Unknown command %q. Type /help for commands.\n", line)
			}
			continue
		}

		result := engine.Process(ctx, sessionID, line)
		sessionID = result.SessionID
		fmt.Printf("\nmindmate> %s\n\n(%.2fs)\n\n", result.Response, result.ResponseTime)
	}
}

func printHistory(engine *pipeline.Engine, sessionID string) {
	history, err := engine.Sessions().History(sessionID, 0)
	if err != nil || len(history) == 0 {
		fmt.Println("No messages yet.")
		return
	}
	for _, turn := range history {
		fmt.Printf("[%s] %s: %s\n", turn.Timestamp.Format(time.Kitchen), strings.ToUpper(string(turn.Role)), turn.Message)
	}
}

func printStats(ctx context.Context, engine *pipeline.Engine) {
	stats, err := engine.GetStats(ctx)
	if err != nil {
		fmt.Printf("Stats unavailable: %v\n", err)
		return
	}
	fmt.Printf("Active sessions:  %d\n", stats.ActiveSessions)
	fmt.Printf("Total messages:   %d\n", stats.TotalMessages)
	fmt.Printf("Knowledge chunks: %d\n", stats.DocumentCount)
	fmt.Printf("Vector store:     %s\n", stats.VectorStore)
	fmt.Printf("Chat model:       %s\n", stats.Model)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
