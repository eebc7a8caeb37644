package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/agentchat/agentchat/pkg/agent"
	"github.com/agentchat/agentchat/pkg/config"
	"github.com/agentchat/agentchat/pkg/controllers"
	"github.com/agentchat/agentchat/pkg/logger"
	"github.com/agentchat/agentchat/pkg/widget"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "agentchat",
	Short: "Streaming agent chat in your terminal",
	Long: `An interactive client for the streaming agent chat engine.
Type a message and watch the agent reply, reason and call tools live.
Use /restart to reset the session and /quit to leave.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}

		if err := logger.Init(); err != nil {
			return err
		}
		defer logger.Close()

		return runChat(cmd.Context(), cfg)
	},
}

func runChat(ctx context.Context, cfg *config.Config) error {
	transport, err := buildTransport(cfg)
	if err != nil {
		return err
	}

	session := controllers.NewSessionController(transport)
	renderer := newRenderer(cfg.Theme)

	host := widget.NewHost()
	host.Mount(session)

	fmt.Println(renderer.banner())
	if err := session.Initialize(ctx); err != nil {
		return err
	}
	renderer.printTranscript(os.Stdout, session.Transcript())

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(renderer.prompt())
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())

		switch input {
		case "":
			continue
		case "/quit", "/exit":
			return nil
		case "/restart":
			if err := session.Restart(ctx); err != nil {
				fmt.Println(renderer.errorLine(err.Error()))
				continue
			}
		default:
			if err := session.Send(ctx, input); err != nil {
				fmt.Println(renderer.errorLine(err.Error()))
				continue
			}
		}

		renderer.printTranscript(os.Stdout, session.Transcript())
	}
	return scanner.Err()
}

func buildTransport(cfg *config.Config) (agent.Transport, error) {
	switch cfg.Transport {
	case config.TransportMock:
		return agent.NewMockTransport(), nil
	case config.TransportHTTP:
		client := agent.NewClientWithIdleTimeout(cfg.Endpoint, cfg.Model, cfg.APIKey, cfg.Timeout)
		if cfg.ThreadID != "" {
			client.SetThreadID(cfg.ThreadID)
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown transport %q", cfg.Transport)
	}
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is .agentchat/settings.yaml)")

	rootCmd.PersistentFlags().StringP("log-level", "l", "info", "log level")
	viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.PersistentFlags().Bool("mock", false, "use the scripted mock transport instead of a live backend")
	rootCmd.PersistentFlags().Lookup("mock").NoOptDefVal = "true"

	rootCmd.PersistentFlags().String("endpoint", "", "agent backend endpoint override")
	rootCmd.PersistentFlags().String("model", "", "model identifier override")

	// Overrides only apply when the flag was actually given, so they never
	// shadow config-file values with empty flag defaults.
	cobra.OnInitialize(func() {
		if mock, _ := rootCmd.PersistentFlags().GetBool("mock"); mock {
			viper.Set("transport", config.TransportMock)
		}
		if flag := rootCmd.PersistentFlags().Lookup("endpoint"); flag.Changed {
			viper.Set("endpoint", flag.Value.String())
		}
		if flag := rootCmd.PersistentFlags().Lookup("model"); flag.Changed {
			viper.Set("model", flag.Value.String())
		}
	})
}
