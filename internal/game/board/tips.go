package board

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/cory-johannsen/sugoroku/internal/game/combat"
	"github.com/cory-johannsen/sugoroku/internal/game/narration"
	"github.com/cory-johannsen/sugoroku/internal/game/play"
	"github.com/cory-johannsen/sugoroku/internal/game/state"
)

var (
	speech        = play.Space{Name: "演説", Generate: speechEvent}
	bookstore     = play.Space{Name: "本屋", Generate: bookstoreEvent}
	signboard     = play.Space{Name: "立て看板", Generate: signboardEvent}
	stoneMonument = play.Space{Name: "石碑", Generate: stoneMonumentEvent}
)

func speechEvent(g *play.Game) {
	p := g.Current()
	g.Describe("演説が聞こえる。", narration.Neutral)
	g.Say("貴方は運命を信じますか？")
	g.Describe("内容は胡散臭い。", narration.Neutral)
	g.Say("この世界にサイコロ以外のランダム性は存在しません。ターン開始の独り言すら、運命に決定されているのです")
	g.Say(pick(p, map[state.Personality]string{
		state.Gentle:  "へー",
		state.Violent: "どうでもいいぜ",
		state.Phobic:  "うるさい……離れよう",
		state.Smart:   "サイコロが未来を切り開くってことだね",
	}))
	g.Describe(fmt.Sprintf("%sは素通りした。", p.Name), narration.Neutral)
}

func bookstoreEvent(g *play.Game) {
	p := g.Current()
	g.Describe("本屋がある。", narration.Neutral)
	g.Describe(fmt.Sprintf("%sは心理テストの本を手に取った。", p.Name), narration.Neutral)
	g.Say("人々の性格は4種類に分類されます")
	switch p.Personality {
	case state.Gentle:
		g.Say("へー")
		g.Describe("すぐ忘れた。", narration.Neutral)
	case state.Violent:
		g.Say("あっそ")
		g.Describe("読み飛ばした。", narration.Neutral)
	case state.Phobic:
		g.Say("あ……手袋忘れてた")
		g.Describe("入念に手を洗った。", narration.Neutral)
	case state.Smart:
		g.Say("本は知識の宝庫だね")
		g.Describe("すぐ忘れた。", narration.Neutral)
	}
}

// signBlocker is the board a violent player tests their weapon on.
type signBlocker struct{ hp int }

func (s *signBlocker) Name() string                    { return "立て看板" }
func (s *signBlocker) HP() int                         { return s.hp }
func (s *signBlocker) SetHP(hp int)                    { s.hp = hp }
func (s *signBlocker) Smart() bool                     { return false }
func (s *signBlocker) DamageVoice(*play.Game, int, int) {}
func (s *signBlocker) KnockedOut(g *play.Game) {
	g.Describe("立て看板は木っ端微塵になった。", narration.Neutral)
}

func signboardEvent(g *play.Game) {
	p := g.Current()
	g.Describe("立て看板がある。", narration.Neutral)
	g.Say("期待値10ダメージ以上の装備は法令により所持が禁止されています")

	if p.Personality == state.Violent {
		if combat.ResolveAttack(g, combat.NewPlayerBattler(p), &signBlocker{hp: 10}, combat.AttackOptions{}) {
			g.Say("警察には気を付けねえとな")
			g.EarnTrophy(p, "違法チェック")
		} else {
			g.Say("ちっ")
		}
		return
	}

	w := combat.MustLookup(p.Weapon)
	expected := strconv.FormatFloat(w.Expected, 'f', -1, 64)
	switch {
	case w.Name == combat.Hand:
		g.Describe(fmt.Sprintf("%sは丸腰だ。", p.Name), narration.Neutral)
	case w.IsIllegal():
		g.Describe(fmt.Sprintf("%sの%s (%s) は違法だ。", p.Name, w.Name, expected), narration.Negative)
	default:
		g.Describe(fmt.Sprintf("%sの%s (%s) は合法だ。", p.Name, w.Name, expected), narration.Positive)
	}
}

var (
	releaseNotes = []string{
		"(2026-01-04) v1.0 初公開",
		"(2026-01-05) v1.1 トロフィー追加",
		"(2026-01-10) v1.2 リプレイ機能",
		"(2026-01-12) v1.3 ログ読み上げ機能",
	}
	leadingDate = regexp.MustCompile(`^\([^)]+\) `)

	monumentComments = map[state.Personality][]string{
		state.Gentle: {
			"v2.0は出るのかな？",
			"リプレイを使えば同じゲームをもう一度見られるんだ",
		},
		state.Violent: {
			"リプレイコードは長いが、気にすることはないぜ",
			"サイコロの目さえ覚えておけば全部再現できるってわけだ",
		},
		state.Phobic: {
			"既に嫌なマスばかりなのに、これ以上イベントが増えたら、私は……",
			"トロフィーは保存されるんですね……消せないんですか……",
		},
		state.Smart: {
			"マイナーバージョンの更新ではゲームバランスが変わらないのさ",
			"フッ……ターンの区切りでセーブするのがスマートなやり方さ",
		},
	}
)

func stoneMonumentEvent(g *play.Game) {
	p := g.Current()
	g.Describe("石碑に何かが刻まれている。", narration.Neutral)
	for _, note := range releaseNotes {
		g.Emit(narration.SystemSpeech(note, narration.Neutral, leadingDate.ReplaceAllString(note, "")))
	}
	comments := pick(p, monumentComments)
	g.Say(comments[p.Turn%len(comments)])
	g.Describe(fmt.Sprintf("%sは石碑を後にした。", p.Name), narration.Neutral)
}
