package router

import (
	"net"
	"net/http"
	"time"

	"github.com/gobwas/ws"
	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

// trafficFeed upgrades the request to a websocket that receives the current traffic snapshot
// followed by one snapshot per published live topology.
func (api *API) trafficFeed(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	conn, _, hs, err := ws.UpgradeHTTP(r, w)
	if err != nil {
		api.log.Info("upgrade error", zap.Error(err), zap.String("remote_addr", r.RemoteAddr))
		return
	}
	// the server write timeout must not apply to a long lived feed
	_ = conn.SetDeadline(time.Time{})

	api.log.Info("established websocket connection", zap.String("connection name", nameConn(conn)),
		zap.String("protocol", hs.Protocol))

	user := api.hub.Register(conn)
	if err := api.hub.Send(user); err != nil {
		api.log.Info("websocket write error", zap.Error(err), zap.String("connection name", nameConn(conn)))
		api.hub.Remove(user)
		return
	}

	go func() {
		err := user.ReadLoop()
		api.log.Info("user disconnected from websocket feed", zap.Error(err),
			zap.String("connection name", nameConn(conn)))
		api.hub.Remove(user)
	}()
}

func nameConn(conn net.Conn) string {
	return conn.LocalAddr().String() + " > " + conn.RemoteAddr().String()
}
