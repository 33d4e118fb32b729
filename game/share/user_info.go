package share

// UserInfo 房间内的玩家信息。Engine 与 Room 共用同一份 map
type UserInfo struct {
	UserID          string `json:"userID"`
	Nickname        string `json:"nickname"`
	Seat            int    `json:"seat"`
	ConnectorNodeID string `json:"connectorNodeID"`
	Online          bool   `json:"online"`
}

// SetOnline 重连后更新路由
func (u *UserInfo) SetOnline(connectorNodeID string) {
	u.ConnectorNodeID = connectorNodeID
	u.Online = true
}
