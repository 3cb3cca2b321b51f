package events

import (
	"net/http"

	"gjinn/core"

	"github.com/sirupsen/logrus"
	"github.com/zishang520/engine.io/v2/types"
	socketio "github.com/zishang520/socket.io/v2/socket"
)

// Hub pushes wish lifecycle transitions to connected clients over
// socket.io. Clients emit "subscribe" with their user id and from then on
// receive "wish-update" events for every transition of that user's wishes.
type Hub struct {
	io *socketio.Server
}

func NewHub() *Hub {
	opts := socketio.DefaultServerOptions()
	opts.SetPath("/socket.io")
	opts.SetAllowEIO3(true)
	opts.SetCors(&types.Cors{
		Origin:      "*",
		Credentials: true,
	})
	ioo := socketio.NewServer(nil, opts)

	ioo.On("connection", func(clients ...any) {
		socket := clients[0].(*socketio.Socket)

		socket.On("subscribe", func(datas ...any) {
			if len(datas) == 0 {
				return
			}
			userID, ok := datas[0].(string)
			if !ok || userID == "" {
				return
			}
			room := userRoom(userID)
			socket.Join(room)
			logrus.WithFields(logrus.Fields{
				"socket": socket.Id(),
				"room":   room,
			}).Debug("Socket subscribed to wish updates")
			socket.Emit("subscribed", userID)
		})

		socket.On("disconnect", func(datas ...any) {
			socket.RemoveAllListeners("")
			socket.Disconnect(true)
		})
	})

	return &Hub{io: ioo}
}

func userRoom(userID string) socketio.Room {
	return socketio.Room("user:" + userID)
}

// WishUpdated implements wish.Notifier.
func (h *Hub) WishUpdated(userID string, w *core.Wish) {
	h.io.To(userRoom(userID)).Emit("wish-update", w)
}

// Handler returns the http.Handler to mount at /socket.io/.
func (h *Hub) Handler() http.Handler {
	return h.io.ServeHandler(nil)
}

func (h *Hub) Close() {
	h.io.Close(nil)
}
