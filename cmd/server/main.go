package main

import (
	"context"
	"encoding/json"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"riichi/config"
	"riichi/game"
	"riichi/game/engines"
	"riichi/game/engines/mahjong"
	"riichi/log"
	"riichi/record"
)

func main() {
	configFile := flag.String("config", "config.yaml", "配置文件路径")
	flag.Parse()

	if err := config.Load(*configFile); err != nil {
		log.InitLog("riichi", "info")
		log.Fatal("加载配置失败: %v", err)
	}
	log.InitLog(config.Conf.Name, config.Conf.Log.Level)

	var repo record.Repository
	if config.Conf.Mongo.Url != "" {
		r, err := record.NewMongoRepository(config.Conf.Mongo)
		if err != nil {
			log.Fatal("连接留档库失败: %v", err)
		}
		repo = r
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = repo.Close(ctx)
		}()
	}

	rm := game.NewRoomManager()
	sessions := game.NewSessionServer(rm)

	pusher := game.MultiPusher{sessions}
	var relay *game.NatsRelay
	if config.Conf.Nats.URL != "" {
		r, err := game.NewNatsRelay(config.Conf.Nats.URL, rm)
		if err != nil {
			log.Fatal("连接 nats 失败: %v", err)
		}
		if err := r.Start(); err != nil {
			log.Fatal("订阅操作主题失败: %v", err)
		}
		relay = r
		pusher = append(pusher, relay)
		defer relay.Close()
	}

	prototype := mahjong.NewRiichiMahjong4p(engineRules(), pusher, repo)
	if err := rm.SetEnginePrototype(engines.RiichiMahjong4pEngine, prototype); err != nil {
		log.Fatal("注入引擎原型失败: %v", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/ws", sessions)
	mux.HandleFunc("/rooms", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req struct {
			Users map[string]string `json:"users"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		room, err := rm.CreateRoom(req.Users, engines.RiichiMahjong4pEngine)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"roomID": room.ID})
	})

	srv := &http.Server{Addr: config.Conf.Addr, Handler: mux}
	go func() {
		log.Info("服务启动于 %s", config.Conf.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("http 服务异常: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("收到退出信号，开始关闭")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
}

// engineRules 引擎默认规则套上配置里的覆盖项
func engineRules() mahjong.Rules {
	rules := mahjong.DefaultRules()
	rc := config.Conf.Rules
	rules.AkaDora = rc.AkaDora
	rules.OpenTanyao = rc.OpenTanyao
	rules.DeadWallDrawConsumes = rc.DeadWallDrawConsumes
	rules.AllowRiichiKan = rc.AllowRiichiKan
	rules.KokushiChankan = rc.KokushiChankan
	if rc.StartPoints > 0 {
		rules.StartPoints = rc.StartPoints
	}
	if rc.MinWinPoints > 0 {
		rules.MinWinPoints = rc.MinWinPoints
	}
	if rc.NotenPool > 0 {
		rules.NotenPool = rc.NotenPool
	}
	return rules
}
