package commands

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"anmi/api"
	"anmi/config"
	"anmi/model"
)

type askOptions struct {
	noStream bool
}

// NewAskCommand creates the ask command
func NewAskCommand(root *rootOptions) *cobra.Command {
	opts := &askOptions{}

	cmd := &cobra.Command{
		Use:   "ask [--no-stream] QUESTION...",
		Short: "Ask one question without opening the chat",
		Long: `Ask one question and print the reply to stdout.
By default the reply is typed out as it streams in. With --no-stream the
whole reply is fetched in one request and printed at once.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			client, err := api.NewClient(cfg.APIBaseURL, cfg.RequestTimeout)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			question := strings.Join(args, " ")
			if opts.noStream {
				return askOnce(ctx, client, cfg, question, cmd.OutOrStdout())
			}
			return askStreaming(ctx, client, cfg, question, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().BoolVar(&opts.noStream, "no-stream", false, "Fetch the whole reply in one request")
	return cmd
}

func askOnce(ctx context.Context, client *api.Client, cfg *config.Config, question string, out io.Writer) error {
	if cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.RequestTimeout)
		defer cancel()
	}

	reply, err := client.Chat(ctx, api.ChatRequest{
		Message:  question,
		ThreadID: model.NewSession().ID,
	})
	if err != nil {
		fmt.Fprintln(out, model.ApologyText)
		return fmt.Errorf("chat request failed: %w", err)
	}

	fmt.Fprintln(out, reply)
	return nil
}

// askStreaming drives the same conversation state machine as the chat, with a ticker in place
// of the update loop's drain ticks.
func askStreaming(ctx context.Context, client *api.Client, cfg *config.Config, question string, out, errOut io.Writer) error {
	conv := model.NewConversation(model.NewSession(), cfg.SplitThreshold)
	stream, ok := conv.Submit(question)
	if !ok {
		return fmt.Errorf("empty question")
	}

	events := model.StartStream(client, stream, api.ChatRequest{
		Message:  question,
		ThreadID: conv.Session.ID,
	})

	interval := cfg.DrainInterval
	if interval <= 0 {
		interval = config.DefaultDrainInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var reassure <-chan time.Time
	if cfg.ReassuranceDelay > 0 {
		timer := time.NewTimer(cfg.ReassuranceDelay)
		defer timer.Stop()
		reassure = timer.C
	}

	var streamErr error
	for conv.Busy() {
		select {
		case <-ctx.Done():
			conv.Cancel()
			fmt.Fprintln(out)
			return ctx.Err()

		case msg, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			switch msg := msg.(type) {
			case model.StreamFragmentMsg:
				conv.Receive(msg.StreamID, msg.Fragment)
			case model.StreamDoneMsg:
				conv.Complete(msg.StreamID)
			case model.StreamErrorMsg:
				streamErr = msg.Err
				conv.Fail(msg.StreamID, msg.Err)
			}

		case <-ticker.C:
			unit, _ := conv.DrainTick(stream.ID)
			fmt.Fprint(out, unit)

		case <-reassure:
			if conv.Reassure(stream.ID, rand.IntN(len(model.ReassuranceMessages))) {
				fmt.Fprintln(errOut, conv.Reassurance)
			}
		}
	}

	if streamErr != nil {
		fmt.Fprintln(out, model.ApologyText)
		return fmt.Errorf("chat stream failed: %w", streamErr)
	}

	fmt.Fprintln(out)
	return nil
}
