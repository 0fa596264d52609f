//go:generate go run github.com/sublee/tagunion/cmd/tagunion

package main

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

type catalog struct {
	items   map[string]*structpb.Struct
	aliases map[string]string
}

func (c *catalog) lookup(key string) Reply {
	if item, ok := c.items[key]; ok {
		return NewReplyFound(item)
	}
	if to, ok := c.aliases[key]; ok {
		return NewReplyMoved("/items/" + to)
	}
	return NewReplyNotFound()
}

func (c *catalog) getItem(ctx echo.Context) error {
	r := c.lookup(ctx.Param("key"))
	defer r.Destroy()

	switch r.Tag() {
	case ReplyFound:
		b, err := protojson.Marshal(r.Found())
		if err != nil {
			return err
		}
		return ctx.JSONBlob(http.StatusOK, b)
	case ReplyMoved:
		return ctx.Redirect(http.StatusMovedPermanently, r.Location())
	}
	return echo.NewHTTPError(http.StatusNotFound, "no such item")
}

func main() {
	apple, err := structpb.NewStruct(map[string]any{"name": "apple", "price": 3})
	if err != nil {
		panic(err)
	}

	c := &catalog{
		items:   map[string]*structpb.Struct{"apple": apple},
		aliases: map[string]string{"malus": "apple"},
	}

	e := echo.New()
	e.GET("/items/:key", c.getItem)
	e.Logger.Fatal(e.Start(":8080"))
}
