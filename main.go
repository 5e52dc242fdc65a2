package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/enliten/medquery/config"
	"github.com/enliten/medquery/llm"
	"github.com/enliten/medquery/nlquery"
	"github.com/enliten/medquery/store"
	"github.com/enliten/medquery/voice"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}
	logger := config.SetupLogging(cfg.LogLevel)

	ctx := context.Background()

	st, err := store.Open(logger)
	if err != nil {
		logger.WithError(err).Fatal("failed to open store")
	}
	defer st.Close()

	loaded, err := st.LoadDir(cfg.DataDir)
	if err != nil {
		logger.WithError(err).Fatal("failed to load data directory")
	}
	if len(loaded) == 0 {
		logger.WithField("dir", cfg.DataDir).Fatal("no tables loaded")
	}
	logger.WithField("tables", strings.Join(loaded, ", ")).Info("database ready")

	backend, err := llm.New(ctx, cfg.Provider, cfg.GeminiKeys, cfg.OpenAIKey)
	if err != nil {
		logger.WithError(err).Fatal("failed to initialize generation backend")
	}
	defer backend.Close()

	var speaker *voice.Manager
	if cfg.VoiceEnabled() {
		speaker, err = voice.New(cfg.OpenAIKey)
		if err != nil {
			logger.WithError(err).Warn("voice features unavailable")
		}
	} else {
		logger.Warn("OPENAI_API_KEY not set, voice features disabled")
	}

	engine := nlquery.NewEngine(
		st,
		nlquery.NewTranslator(backend),
		nlquery.NewSynthesizer(backend),
		logger,
	)

	color.Cyan("\n=== Medical Data Query System ===")
	fmt.Printf("Provider: %s | Tables: %s\n", backend.Name(), strings.Join(loaded, ", "))

	scanner := bufio.NewScanner(os.Stdin)
	var lastAnswer string

	for {
		displayMenu(speaker != nil)
		choice := readLine(scanner)

		if speaker == nil {
			switch choice {
			case "1":
				lastAnswer = askQuestion(ctx, engine, scanner)
			case "2":
				runDirectSQL(ctx, engine, scanner)
			case "3":
				showSchema(st)
			case "4":
				showHistory(engine)
			case "5":
				color.Green("Goodbye!")
				return
			default:
				color.Red("Invalid choice. Please try again.")
			}
			continue
		}

		switch choice {
		case "1":
			lastAnswer = askQuestion(ctx, engine, scanner)
		case "2":
			lastAnswer = askByVoice(ctx, engine, speaker, scanner)
		case "3":
			runDirectSQL(ctx, engine, scanner)
		case "4":
			showSchema(st)
		case "5":
			showHistory(engine)
		case "6":
			speakAnswer(ctx, speaker, cfg.TTSVoice, lastAnswer)
		case "7":
			color.Green("Goodbye!")
			return
		default:
			color.Red("Invalid choice. Please try again.")
		}
	}
}

func displayMenu(voiceEnabled bool) {
	color.Cyan("\n--- Menu ---")
	if voiceEnabled {
		fmt.Println("1. Ask a Question")
		fmt.Println("2. Ask by Voice (audio file)")
		fmt.Println("3. Direct SQL Query")
		fmt.Println("4. Database Schema")
		fmt.Println("5. Query History")
		fmt.Println("6. Speak Last Answer")
		fmt.Println("7. Exit")
		fmt.Print("\nEnter your choice (1-7): ")
		return
	}
	fmt.Println("1. Ask a Question")
	fmt.Println("2. Direct SQL Query")
	fmt.Println("3. Database Schema")
	fmt.Println("4. Query History")
	fmt.Println("5. Exit")
	fmt.Print("\nEnter your choice (1-5): ")
}

func readLine(scanner *bufio.Scanner) string {
	if !scanner.Scan() {
		return ""
	}
	return strings.TrimSpace(scanner.Text())
}

func askQuestion(ctx context.Context, engine *nlquery.Engine, scanner *bufio.Scanner) string {
	fmt.Print("Ask about patients, medications, seizures, or assessments: ")
	question := readLine(scanner)
	if question == "" {
		return ""
	}
	return runQuestion(ctx, engine, question)
}

// askByVoice transcribes a recorded question and feeds it through the same
// pipeline as a typed one.
func askByVoice(ctx context.Context, engine *nlquery.Engine, speaker *voice.Manager, scanner *bufio.Scanner) string {
	fmt.Print("Path to audio file (wav, mp3, webm, ...): ")
	path := readLine(scanner)
	if path == "" {
		return ""
	}

	audio, err := os.ReadFile(path)
	if err != nil {
		color.Red("reading audio: %v", err)
		return ""
	}
	format := strings.TrimPrefix(filepath.Ext(path), ".")
	if format == "" {
		format = "wav"
	}

	question, err := speaker.Transcribe(ctx, audio, format)
	if err != nil {
		color.Red("%v", err)
		return ""
	}
	color.Blue("Transcribed question: %s", question)
	return runQuestion(ctx, engine, question)
}

func runQuestion(ctx context.Context, engine *nlquery.Engine, question string) string {
	out := engine.Ask(ctx, question)
	switch out.State {
	case nlquery.StateRejected:
		color.Red("Query rejected: %v", out.Err)
		return ""
	case nlquery.StateFailed:
		color.Red("Error: %v", out.Err)
		return ""
	}

	color.Yellow("\nGenerated SQL:")
	fmt.Println(out.SQL)
	color.Blue("Explanation: %s", out.Explanation)

	fmt.Println()
	displayResults(out.Results)

	color.Green("\nAnswer: %s", out.Answer)
	return out.Answer
}

func runDirectSQL(ctx context.Context, engine *nlquery.Engine, scanner *bufio.Scanner) {
	fmt.Print("Enter a SELECT query: ")
	query := readLine(scanner)
	if query == "" {
		return
	}

	out := engine.Direct(ctx, query)
	switch out.State {
	case nlquery.StateRejected, nlquery.StateFailed:
		color.Red("%v", out.Err)
		return
	}
	displayResults(out.Results)
}

func displayResults(rs *store.ResultSet) {
	if rs == nil || rs.Empty() {
		color.Yellow(nlquery.NoResultsText)
		return
	}
	rs.Render(os.Stdout)
	fmt.Printf("%d row(s)\n", rs.Len())
}

func showSchema(st *store.Store) {
	schema := st.Schema()
	for _, name := range schema.Tables() {
		info, _ := schema.Info(name)
		color.Yellow("\nTable: %s (%d rows)", info.Name, info.RowCount)

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Column", "Type"})
		for _, col := range info.Columns {
			table.Append([]string{col.Name, col.Type})
		}
		table.Render()
	}
}

func showHistory(engine *nlquery.Engine) {
	records := engine.History()
	if len(records) == 0 {
		color.Yellow("No queries yet.")
		return
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"#", "Question", "Rows", "Answer"})
	for i, rec := range records {
		table.Append([]string{
			fmt.Sprintf("%d", i+1),
			rec.Question,
			fmt.Sprintf("%d", rec.RowCount),
			rec.Answer,
		})
	}
	table.Render()
}

func speakAnswer(ctx context.Context, speaker *voice.Manager, voiceName, answer string) {
	if answer == "" {
		color.Yellow("Nothing to speak yet; ask a question first.")
		return
	}
	audio, err := speaker.Speak(ctx, answer, voiceName)
	if err != nil {
		color.Red("%v", err)
		return
	}
	path := filepath.Join(os.TempDir(), "medquery-answer.mp3")
	if err := speaker.SaveAudio(audio, path); err != nil {
		color.Red("saving audio: %v", err)
		return
	}
	color.Green("Answer audio saved to %s", path)
}
