package turn

import (
	"fmt"

	"github.com/cory-johannsen/sugoroku/internal/game/state"
)

// helloLines returns the turn-start monologue candidates for p.
func helloLines(p *state.Player) []string {
	switch p.Personality {
	case state.Violent:
		return []string{
			"ブッ飛ばしてやるぜ！",
			"誰も俺を止められねえ！",
			"誰でもいいから殴りてえ",
			"ククク……俺のターンだな……",
			"終わらせてやるぜ、このゲームをよォ！",
			"ヒャッハー！",
		}
	case state.Phobic:
		return []string{
			"あ、あの……頑張ります",
			"うう、進まないと",
			"なんで私がこんなことを……",
			"帰りたい",
			"サイコロも消毒しなきゃ",
			"誰にも会いませんように……！",
		}
	case state.Smart:
		remaining := (state.GoalPosition - p.Position + 5) / 6
		return []string{
			"フッ、今日も知略を巡らせよう",
			"無駄な動きはしない",
			"6の目が出る確率……66.6%",
			"スマートにゴールしてみせるさ",
			"データに基づいて最適に行動するのさ",
			fmt.Sprintf("僕の計算によれば、あと%dターンだね", remaining),
		}
	default:
		distance := "ゴールが近づいてきた"
		if p.Position < state.GoalPosition/2 {
			distance = "ゴールまで遠いなあ"
		}
		return []string{
			"がんばるぞ",
			distance,
			"6の目を出したい",
			"今日はどうしようかな",
			"みんな元気かな",
			"平和が一番だね",
		}
	}
}

// Hello picks the monologue for the current player. The choice depends only
// on the player index and position.
func Hello(st *state.GameState) string {
	p := st.CurrentPlayer()
	lines := helloLines(p)
	return lines[(st.CurrentPlayerIndex+p.Position)%len(lines)]
}

var goalLines = map[bool]map[state.Personality][]string{
	true: {
		state.Gentle:  {"やったね", "嬉しい", "運が良かった"},
		state.Violent: {"俺の勝ちだァ！", "フハハハ！", "俺は全てを終わらせる"},
		state.Phobic:  {"私が……1位？", "誰もいませんね", "勝てるものですね"},
		state.Smart:   {"フッ、当然の結果さ", "実力を示したまで", "スマートな勝利！"},
	},
	false: {
		state.Gentle:  {"がんばった", "ぼちぼちだね", "先客がいたか"},
		state.Violent: {"遅れを取ったぜ", "もっと力が必要だ……", "ククク……覚えていろよ"},
		state.Phobic:  {"外は怖いです", "やっと帰れます", "助かった……！"},
		state.Smart:   {"まだまだ、至らないね", "PDCAサイクルを回すのさ", "僕を越える者がいるとは"},
	},
}

// GoalLine is p's closing line on arriving at rank.
func GoalLine(p *state.Player, rank int) string {
	lines := goalLines[rank == 1][p.Personality]
	return lines[p.Turn%len(lines)]
}
