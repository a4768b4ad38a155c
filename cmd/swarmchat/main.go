package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/swarmchat/swarmchat/internal/bridge"
	"github.com/swarmchat/swarmchat/internal/chat"
	"github.com/swarmchat/swarmchat/internal/config"
	"github.com/swarmchat/swarmchat/internal/domain"
	"github.com/swarmchat/swarmchat/internal/llm"
	"github.com/swarmchat/swarmchat/internal/llm/hosted"
	"github.com/swarmchat/swarmchat/internal/llm/local"
	"github.com/swarmchat/swarmchat/internal/logging"
	"github.com/swarmchat/swarmchat/internal/selector"
	"github.com/swarmchat/swarmchat/internal/store"
	"github.com/swarmchat/swarmchat/internal/stream"
)

func main() {
	root := &cobra.Command{
		Use:   "swarmchat",
		Short: "Multi-session AI chat client with gated command execution",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run()
		},
		SilenceUsage: true,
	}

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env file - try multiple locations
	for _, p := range []string{".env", "../.env"} {
		if err := godotenv.Load(p); err == nil {
			break
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := logging.Setup(cfg.Logging); err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}

	log.Info().Str("provider", cfg.LLM.DefaultProvider).Msg("starting swarmchat")

	st := store.New(cfg.Limits.Limits())
	seedSettings(st, cfg)

	registry := llm.NewRegistry(cfg.LLM.DefaultProvider)
	registry.Register(local.NewProvider(cfg.LLM.Local.Host, cfg.LLM.Local.DefaultModel))
	registry.Register(hosted.NewProvider(cfg.LLM.Hosted.Endpoint, cfg.LLM.Hosted.APIKey, cfg.LLM.Hosted.DefaultModel))

	bus := stream.NewBus()
	approvals := bridge.NewStaticSource(cfg.Bridge.AutoApprove)
	gate := bridge.NewGate(st, bridge.NewShellExecutor(cfg.Bridge.CommandTimeout), approvals, bridge.NewScreen())
	svc := chat.NewService(st, stream.NewListener(bus), bus, registry, gate)
	defer svc.Close()

	return repl(st, bus, svc, gate, approvals)
}

func seedSettings(st *store.Store, cfg *config.Config) {
	provider := domain.ProviderKind(cfg.LLM.DefaultProvider)
	endpoint := cfg.LLM.Hosted.Endpoint
	if provider == domain.ProviderLocal {
		endpoint = cfg.LLM.Local.Host
	}
	st.UpdateSettings(domain.SettingsPatch{
		EndpointURL:     &endpoint,
		APIKey:          &cfg.LLM.Hosted.APIKey,
		SystemPrompt:    &cfg.LLM.SystemPrompt,
		DefaultProvider: &provider,
		UseSwarmMode:    &cfg.LLM.UseSwarmMode,
	})
}

func repl(st *store.Store, bus *stream.Bus, svc *chat.Service, gate *bridge.Gate, approvals *bridge.StaticSource) error {
	streaming := make(chan struct{}, 1)
	svc.OnStreamDone(func(string) {
		fmt.Println()
		streaming <- struct{}{}
	})
	svc.OnStreamError(func(err error) {
		fmt.Printf("\n[error] %v\n", err)
		streaming <- struct{}{}
	})

	// Rendering is the host's job; the REPL is its stand-in and taps both
	// channels directly.
	printChunk := func(ev domain.StreamEvent) {
		if ev.Chunk != "" {
			fmt.Print(ev.Chunk)
		}
	}
	defer bus.Subscribe(domain.ChannelPrimary, printChunk)()
	defer bus.Subscribe(domain.ChannelSwarm, printChunk)()

	fmt.Println("swarmchat — /help for commands")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			if quit := command(st, gate, approvals, line); quit {
				return nil
			}
			continue
		}

		if err := svc.Send(context.Background(), line); err != nil {
			fmt.Printf("[error] %v\n", err)
			continue
		}
		<-streaming
	}
}

func command(st *store.Store, gate *bridge.Gate, approvals *bridge.StaticSource, line string) (quit bool) {
	fields := strings.Fields(line)
	arg := ""
	if len(fields) > 1 {
		arg = strings.Join(fields[1:], " ")
	}

	switch fields[0] {
	case "/quit", "/exit":
		return true
	case "/new":
		st.CreateSession()
		fmt.Println("created new session")
	case "/sessions":
		snap := st.Snapshot()
		for i, sess := range snap.Sessions {
			marker := " "
			if sess.ID == snap.CurrentID {
				marker = "*"
			}
			fmt.Printf("%s %2d  %s  (%d messages)\n", marker, i+1, sess.Title, selector.MessageCountFor(sess.ID)(snap))
		}
	case "/select":
		snap := st.Snapshot()
		if n, err := strconv.Atoi(arg); err == nil && n >= 1 && n <= len(snap.Sessions) {
			st.SelectSession(snap.Sessions[n-1].ID)
		} else {
			fmt.Println("usage: /select <session number>")
		}
	case "/delete":
		snap := st.Snapshot()
		if snap.CurrentID != "" {
			st.DeleteSession(snap.CurrentID)
			fmt.Println("deleted current session")
		}
	case "/clear":
		st.ClearHistory()
	case "/show":
		snap := st.Snapshot()
		for _, msg := range selector.MessagesFor(snap.CurrentID)(snap) {
			fmt.Printf("[%s] %s\n", msg.Role, msg.Content)
		}
	case "/title":
		snap := st.Snapshot()
		st.UpdateSessionTitle(snap.CurrentID, arg)
	case "/swarm":
		on := arg == "on"
		st.UpdateSettings(domain.SettingsPatch{UseSwarmMode: &on})
		fmt.Printf("swarm mode: %v\n", on)
	case "/auto":
		approvals.SetAutoApprove(arg == "on")
		fmt.Printf("auto-approve: %v\n", arg == "on")
	case "/approve":
		gate.Approve(context.Background())
	case "/deny":
		gate.Deny()
	case "/help":
		fmt.Println("/new /sessions /select <n> /delete /clear /show /title <t> /swarm on|off /auto on|off /approve /deny /quit")
	default:
		fmt.Println("unknown command; /help for the list")
	}
	return false
}
