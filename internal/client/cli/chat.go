package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/cbtcompanion/internal/client/models"
	"github.com/dmitrijs2005/cbtcompanion/internal/client/nav"
)

const crisisResources = `If you are in immediate danger, call your local emergency number.
  988 Suicide & Crisis Lifeline (US): call or text 988
  Crisis Text Line: text HOME to 741741
  International Association for Suicide Prevention: https://www.iasp.info/resources/Crisis_Centres/`

func formatMessage(m models.Message) string {
	who := "you"
	if m.Sender == models.SenderAssistant {
		who = "companion"
	}
	var tag string
	switch {
	case m.Flags.IsCrisis:
		tag = " [!]"
	case m.Flags.IsError:
		tag = " [error]"
	}
	return fmt.Sprintf("%s %s%s: %s", m.Timestamp.Local().Format("15:04"), who, tag, m.Text)
}

func (a *App) follow(route *nav.Navigation) {
	if route == nil {
		return
	}
	switch route.Route {
	case nav.CrisisResources:
		fmt.Fprintln(a.out, crisisResources)
	case nav.Login:
		a.setUser("")
		fmt.Fprintln(a.out, "Session expired. Please login again.")
	case nav.Chat:
		if id := route.Param(nav.ParamConversationID); id != "" {
			fmt.Fprintf(a.out, "Conversation %s\n", id)
		}
		a.printMessages()
	}
}

func (a *App) Send(ctx context.Context, text string) error {
	fmt.Fprintln(a.out, "...")
	out, err := a.chat.Send(ctx, text)
	if err != nil && out.Route == nil {
		a.report(err)
		return err
	}
	if out.Reply != nil {
		fmt.Fprintln(a.out, formatMessage(*out.Reply))
	}
	a.follow(out.Route)
	return err
}

func (a *App) NewConversation(context.Context) error {
	a.chat.NewConversation()
	fmt.Fprintln(a.out, "Started a new conversation")
	return nil
}

func (a *App) History(ctx context.Context) error {
	if a.Mode() == ModeDemo {
		fmt.Fprintln(a.out, "History is not available in demo mode.")
		return nil
	}
	convs, err := a.conv.List(ctx)
	if err != nil {
		a.report(err)
		return err
	}
	if len(convs) == 0 {
		fmt.Fprintln(a.out, "No conversations yet. Start chatting to see your history here.")
		return nil
	}
	for _, c := range convs {
		when := ""
		if !c.UpdatedAt.IsZero() {
			when = c.UpdatedAt.Local().Format("2006-01-02 15:04")
		}
		fmt.Fprintf(a.out, "%-6s %-16s %s\n", c.ID, when, c.DisplayTitle())
	}
	return nil
}

func (a *App) Open(ctx context.Context, id string) error {
	if a.Mode() == ModeDemo {
		fmt.Fprintln(a.out, "History is not available in demo mode.")
		return nil
	}
	cid := models.ConversationID(strings.TrimSpace(id))
	if err := a.chat.Open(ctx, cid); err != nil {
		a.report(err)
		return err
	}
	a.follow(nav.ChatWith(cid))
	return nil
}

// Log prints the shown conversation.
func (a *App) Log(context.Context) error {
	if id, ok := a.chat.ConversationID(); ok && len(a.chat.Messages()) > 0 {
		fmt.Fprintf(a.out, "Conversation %s\n", id)
	}
	a.printMessages()
	return nil
}

func (a *App) printMessages() {
	msgs := a.chat.Messages()
	if len(msgs) == 0 {
		fmt.Fprintln(a.out, "No messages yet.")
		return
	}
	for _, m := range msgs {
		fmt.Fprintln(a.out, formatMessage(m))
	}
}
