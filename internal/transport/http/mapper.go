package http

import (
	"encoding/json"

	"github.com/chatrelay/chatrelay-server/internal/core"
	"github.com/chatrelay/chatrelay-server/internal/proto"
)

func inboundToCommand(inbound proto.Inbound) (*core.Command, *proto.Error, error) {
	switch inbound.Type {
	case proto.InboundTypeJoin:
		var join proto.JoinData
		if err := json.Unmarshal(inbound.Data, &join); err != nil {
			return nil, nil, err
		}
		if join.Username == "" {
			return nil, &proto.Error{Code: core.ErrCodeInvalidUsername, Msg: "username is required"}, nil
		}
		return &core.Command{
			Kind:     core.CommandJoin,
			Username: join.Username,
			Room:     join.Room,
		}, nil, nil
	case proto.InboundTypeChangeRoom:
		var change proto.ChangeRoomData
		if err := json.Unmarshal(inbound.Data, &change); err != nil {
			return nil, nil, err
		}
		if change.Room == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "room is required"}, nil
		}
		return &core.Command{
			Kind: core.CommandChangeRoom,
			Room: change.Room,
		}, nil, nil
	case proto.InboundTypeMsg:
		var msg proto.MsgData
		if err := json.Unmarshal(inbound.Data, &msg); err != nil {
			return nil, nil, err
		}
		if msg.Text == "" && msg.File == nil {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "message is empty"}, nil
		}
		return &core.Command{
			Kind: core.CommandSendMessage,
			Text: msg.Text,
			File: fileFromData(msg.File),
		}, nil, nil
	case proto.InboundTypeTyping:
		var typing proto.TypingData
		if err := json.Unmarshal(inbound.Data, &typing); err != nil {
			return nil, nil, err
		}
		return &core.Command{
			Kind:     core.CommandTyping,
			IsTyping: typing.IsTyping,
		}, nil, nil
	case proto.InboundTypePrivateMsg:
		var pm proto.PrivateMsgData
		if err := json.Unmarshal(inbound.Data, &pm); err != nil {
			return nil, nil, err
		}
		if pm.To == "" || pm.Text == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "recipient and text are required"}, nil
		}
		return &core.Command{
			Kind: core.CommandPrivateMessage,
			To:   pm.To,
			Text: pm.Text,
		}, nil, nil
	case proto.InboundTypeMarkRead:
		var mr proto.MarkReadData
		if err := json.Unmarshal(inbound.Data, &mr); err != nil {
			return nil, nil, err
		}
		if mr.MessageID == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "message_id is required"}, nil
		}
		return &core.Command{
			Kind:      core.CommandMarkRead,
			MessageID: mr.MessageID,
		}, nil, nil
	case proto.InboundTypeAddReaction, proto.InboundTypeRemoveReaction:
		var reaction proto.ReactionData
		if err := json.Unmarshal(inbound.Data, &reaction); err != nil {
			return nil, nil, err
		}
		if reaction.MessageID == "" || reaction.Emoji == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "message_id and emoji are required"}, nil
		}
		kind := core.CommandAddReaction
		if inbound.Type == proto.InboundTypeRemoveReaction {
			kind = core.CommandRemoveReaction
		}
		return &core.Command{
			Kind:      kind,
			MessageID: reaction.MessageID,
			Emoji:     reaction.Emoji,
		}, nil, nil
	case proto.InboundTypeSearch:
		var search proto.SearchData
		if err := json.Unmarshal(inbound.Data, &search); err != nil {
			return nil, nil, err
		}
		return &core.Command{
			Kind:  core.CommandSearch,
			Query: search.Query,
		}, nil, nil
	case proto.InboundTypeLoadMore:
		var load proto.LoadMoreData
		if err := json.Unmarshal(inbound.Data, &load); err != nil {
			return nil, nil, err
		}
		return &core.Command{
			Kind:  core.CommandLoadMore,
			Page:  load.Page,
			Limit: load.Limit,
		}, nil, nil
	default:
		return nil, &proto.Error{Code: "invalid_message", Msg: "unknown message type"}, nil
	}
}

func outboundFromEvent(event *core.Event) proto.Outbound {
	switch event.Kind {
	case core.EventHistory:
		return eventOutbound(proto.EventNameHistory, proto.EventHistory{
			Room:     event.Room,
			Messages: messagesToPayload(event.Messages),
		})
	case core.EventRoomCatalog:
		return eventOutbound(proto.EventNameRooms, proto.EventRooms{Rooms: event.Rooms})
	case core.EventUserJoined:
		return eventOutbound(proto.EventNameUserJoined, proto.EventUserJoined{
			Room: event.Room,
			User: event.User,
			ID:   event.UserID,
		})
	case core.EventUserLeft:
		return eventOutbound(proto.EventNameUserLeft, proto.EventUserLeft{
			Room: event.Room,
			User: event.User,
			ID:   event.UserID,
		})
	case core.EventUserList:
		users := make([]proto.UserPayload, 0, len(event.Users))
		for _, s := range event.Users {
			users = append(users, proto.UserPayload{
				ID:       s.ID,
				Username: s.Username,
				Room:     s.Room,
				JoinedAt: s.JoinedAt.Unix(),
			})
		}
		return eventOutbound(proto.EventNameUserList, proto.EventUserList{
			Room:  event.Room,
			Users: users,
		})
	case core.EventMessage:
		return eventOutbound(proto.EventNameMessage, messageToPayload(event.Message))
	case core.EventMessageSent:
		return eventOutbound(proto.EventNameMessageSent, proto.EventMessageSent{MessageID: event.MessageID})
	case core.EventTypingUsers:
		return eventOutbound(proto.EventNameTypingUsers, proto.EventTypingUsers{
			Room:  event.Room,
			Users: event.Typing,
		})
	case core.EventMessageRead:
		return eventOutbound(proto.EventNameMessageRead, proto.EventMessageRead{
			MessageID: event.MessageID,
			ReadBy:    event.ReadBy,
		})
	case core.EventReactionUpdate:
		return eventOutbound(proto.EventNameReactionUpdate, proto.EventReactionUpdate{
			MessageID: event.MessageID,
			Emoji:     event.Emoji,
			Reactions: event.Reactions,
		})
	case core.EventSearchResults:
		return eventOutbound(proto.EventNameSearchResults, proto.EventSearchResults{
			Query:   event.Query,
			Results: messagesToPayload(event.Messages),
		})
	case core.EventMessagesPage:
		return eventOutbound(proto.EventNameMessagesPage, proto.EventMessagesPage{
			Messages: messagesToPayload(event.Messages),
			Page:     event.Page,
			HasMore:  event.HasMore,
		})
	case core.EventError:
		if event.Error == nil {
			return proto.Outbound{Type: proto.OutboundTypeError, Error: &proto.Error{Code: "unknown", Msg: "unknown error"}}
		}
		return proto.Outbound{
			Type:  proto.OutboundTypeError,
			Error: &proto.Error{Code: event.Error.Code, Msg: event.Error.Message},
		}
	default:
		return proto.Outbound{Type: proto.OutboundTypeEvent}
	}
}

func eventOutbound(name string, data any) proto.Outbound {
	return proto.Outbound{
		Type:  proto.OutboundTypeEvent,
		Event: name,
		Data:  data,
	}
}

func messageToPayload(m *core.Message) proto.MessagePayload {
	if m == nil {
		return proto.MessagePayload{}
	}
	readBy := make(map[string]int64, len(m.ReadBy))
	for id, at := range m.ReadBy {
		readBy[id] = at.Unix()
	}
	return proto.MessagePayload{
		ID:         m.ID,
		Sender:     m.Sender,
		SenderID:   m.SenderID,
		Room:       m.Room,
		ReceiverID: m.ReceiverID,
		Text:       m.Text,
		File:       fileToData(m.File),
		IsPrivate:  m.IsPrivate,
		TS:         m.CreatedAt.Unix(),
		ReadBy:     readBy,
		Reactions:  m.Reactions,
	}
}

func messagesToPayload(msgs []*core.Message) []proto.MessagePayload {
	out := make([]proto.MessagePayload, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, messageToPayload(m))
	}
	return out
}

func fileFromData(f *proto.FileData) *core.FileAttachment {
	if f == nil {
		return nil
	}
	return &core.FileAttachment{
		Filename:     f.Filename,
		OriginalName: f.OriginalName,
		URL:          f.URL,
		MimeType:     f.MimeType,
		Size:         f.Size,
	}
}

func fileToData(f *core.FileAttachment) *proto.FileData {
	if f == nil {
		return nil
	}
	return &proto.FileData{
		Filename:     f.Filename,
		OriginalName: f.OriginalName,
		URL:          f.URL,
		MimeType:     f.MimeType,
		Size:         f.Size,
	}
}
